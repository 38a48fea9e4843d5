// Package sym defines canonical symbols for SIMYX subsystems and log markers.
// These symbols are stable across CLI output, logs, and documentation.
package sym

// Subsystem symbols — one glyph per moving part of the framework.
const (
	Clock  = "◷" // virtual clock / plan scheduling
	Pop    = "⊙" // population / entity creation
	Prop   = "≔" // property mutation
	Part   = "⊞" // partition indices
	Group  = "⊕" // group membership
	Report = "▤" // report release and sinks
	Rng    = "⚄" // random streams
	Run    = "▶" // experiment runs / replications
	RunEnd = "■" // replication complete
	DB     = "⊔" // database/storage layer
)

// entry binds a glyph to its name and description.
type entry struct {
	glyph       string
	name        string
	description string
}

// registry is the canonical mapping between glyphs and symbol metadata.
var registry = []entry{
	{Clock, "clock", "Virtual clock and plan scheduling"},
	{Pop, "pop", "Population and entity creation"},
	{Prop, "prop", "Property mutation"},
	{Part, "part", "Partition index maintenance"},
	{Group, "group", "Group membership"},
	{Report, "report", "Report release and sinks"},
	{Rng, "rng", "Named random streams"},
	{Run, "run", "Experiment runs and replications"},
	{RunEnd, "run_end", "Replication complete"},
	{DB, "db", "Database/storage layer"},
}

// Lookup tables built from the registry at init time.
var (
	glyphToName map[string]string
	nameToGlyph map[string]string
)

func init() {
	glyphToName = make(map[string]string, len(registry))
	nameToGlyph = make(map[string]string, len(registry))
	for _, e := range registry {
		glyphToName[e.glyph] = e.name
		nameToGlyph[e.name] = e.glyph
	}
}

// Name returns the short name for a glyph, or "" if unknown.
func Name(glyph string) string {
	return glyphToName[glyph]
}

// Glyph returns the glyph for a short name, or "" if unknown.
func Glyph(name string) string {
	return nameToGlyph[name]
}

// All returns every registered glyph in canonical order.
func All() []string {
	glyphs := make([]string, 0, len(registry))
	for _, e := range registry {
		glyphs = append(glyphs, e.glyph)
	}
	return glyphs
}

// Describe returns the human-readable description for a glyph, or "".
func Describe(glyph string) string {
	for _, e := range registry {
		if e.glyph == glyph {
			return e.description
		}
	}
	return ""
}
