package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: results, errors with hints, final status
//	1 (-v)      - + Progress, replication status, startup info
//	2 (-vv)     - + Timing, config loaded, partition statistics
//	3 (-vvv)    - + Per-plan trace, SQL statements, sink writes
//	4 (-vvvv)   - + Per-mutation trace, full data structure dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Run results, report summaries
	OutputErrors                           // Errors with hints and resolution steps
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress    // Progress indicators (e.g., "replication 50/100")
	OutputStartup     // Startup banners, scenario summary
	OutputReplication // Per-replication start/finish status

	// Level 2 (-vv) - Detailed
	OutputTiming    // Operation timing (e.g., "replication took 42ms")
	OutputConfig    // Config values loaded/applied
	OutputPartStats // Partition bucket counts and rebuild stats

	// Level 3 (-vvv) - Debug
	OutputPlanTrace  // Individual plan pops and clock advances
	OutputSQLQueries // Individual SQL statements executed by sinks
	OutputSinkWrites // Report rows written to sinks

	// Level 4 (-vvvv) - Full dump
	OutputMutationTrace // Individual property mutations and bucket moves
	OutputDataDump      // Full data structure contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	// Level 0 - Always shown
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	// Level 1 - Informational
	OutputProgress:    VerbosityInfo,
	OutputStartup:     VerbosityInfo,
	OutputReplication: VerbosityInfo,

	// Level 2 - Detailed
	OutputTiming:    VerbosityDebug,
	OutputConfig:    VerbosityDebug,
	OutputPartStats: VerbosityDebug,

	// Level 3 - Debug
	OutputPlanTrace:  VerbosityTrace,
	OutputSQLQueries: VerbosityTrace,
	OutputSinkWrites: VerbosityTrace,

	// Level 4 - Full dump
	OutputMutationTrace: VerbosityAll,
	OutputDataDump:      VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:       "results",
	OutputErrors:        "errors",
	OutputUserStatus:    "status",
	OutputProgress:      "progress",
	OutputStartup:       "startup",
	OutputReplication:   "replication",
	OutputTiming:        "timing",
	OutputConfig:        "config",
	OutputPartStats:     "part-stats",
	OutputPlanTrace:     "plan-trace",
	OutputSQLQueries:    "sql",
	OutputSinkWrites:    "sink-writes",
	OutputMutationTrace: "mutation-trace",
	OutputDataDump:      "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns all output categories enabled at the given verbosity
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat, minLevel := range categoryLevels {
		if verbosity >= minLevel {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and replication status"
	case VerbosityDebug:
		return "above + timing, config, partition statistics"
	case VerbosityTrace:
		return "above + plan trace, SQL, sink writes"
	case VerbosityAll:
		return "full output including per-mutation trace"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
