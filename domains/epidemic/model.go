package epidemic

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/exp"
	"github.com/teranos/SIMYX/global"
	"github.com/teranos/SIMYX/part"
	"github.com/teranos/SIMYX/pop"
	"github.com/teranos/SIMYX/prop"
	"github.com/teranos/SIMYX/region"
	"github.com/teranos/SIMYX/report"
	"github.com/teranos/SIMYX/rng"
	"github.com/teranos/SIMYX/sim"
)

// Status holds each entity's compartment.
var Status = prop.Define("epidemic.status", Susceptible)

// State is the partition label: compartment within region.
type State struct {
	Region      region.ID
	Compartment Compartment
}

// ByState partitions the population by region and compartment. Contact
// targets and compartment counts come out of it.
var ByState = part.Define("epidemic.state", stateOf, Status, region.Assignment)

func stateOf(k *sim.Kernel, e sim.EntityID) State {
	return State{Region: region.Of(k, e), Compartment: prop.Get(k, Status, e)}
}

var cumulativeCases = global.Define("epidemic.cumulative-cases", 0)

var (
	setupStream    = rng.Define("epidemic.setup")
	contactStream  = rng.Define("epidemic.contacts")
	durationStream = rng.Define("epidemic.durations")
)

// Timeseries reports daily aggregate compartment counts.
var Timeseries = report.Define[TimeseriesRow]("epidemic.timeseries")

// TimeseriesRow is one sampled day.
type TimeseriesRow struct {
	Day         int
	Susceptible int
	Infectious  int
	Recovered   int
	NewCases    int
}

func (TimeseriesRow) Header() []string {
	return []string{"day", "susceptible", "infectious", "recovered", "new_cases"}
}

func (r TimeseriesRow) Row() []string {
	return []string{
		strconv.Itoa(r.Day),
		strconv.Itoa(r.Susceptible),
		strconv.Itoa(r.Infectious),
		strconv.Itoa(r.Recovered),
		strconv.Itoa(r.NewCases),
	}
}

// build wires one replication: the population spread over regions, the
// initial infections, and the daily sampler.
func build(k *sim.Kernel, rep exp.Replication, p params) error {
	if err := wireSink(k, rep); err != nil {
		return err
	}

	part.Register(k, ByState)

	for i := 0; i < p.regions; i++ {
		region.Create(k)
	}

	setup := rng.Get(k, setupStream)
	pop.CreateMany(k, rep.Scenario.Population, func(k *sim.Kernel, e sim.EntityID) {
		region.Assign(k, e, region.ID(setup.IntN(p.regions)))
	})

	for _, i := range setup.Perm(rep.Scenario.Population)[:p.initialInfected] {
		infect(k, sim.EntityID(i), p)
	}

	scheduleSampler(k, p)
	return nil
}

// wireSink sends the timeseries to a per-replication CSV file under the
// scenario's output directory, or discards it when none is configured.
func wireSink(k *sim.Kernel, rep exp.Replication) error {
	s := rep.Scenario
	if s.OutputDir == "" {
		report.SetHandler(k, Timeseries, func(TimeseriesRow) {})
		return nil
	}

	name := s.Name
	if name == "" {
		name = "epidemic"
	}
	path := filepath.Join(s.OutputDir, fmt.Sprintf("%s-r%03d.csv", name, rep.Index))
	handler, closer, err := report.FileCSV[TimeseriesRow](path)
	if err != nil {
		return errors.Wrap(err, "opening timeseries sink")
	}
	exp.Defer(k, closer)
	report.SetHandler(k, Timeseries, handler)
	return nil
}

func infect(k *sim.Kernel, e sim.EntityID, p params) {
	prop.Set(k, Status, e, Infectious)
	global.Set(k, cumulativeCases, global.Get(k, cumulativeCases)+1)

	durations := rng.Get(k, durationStream)
	plan(k, k.Now()+durations.ExpFloat64()/p.gamma, func(k *sim.Kernel) {
		prop.Set(k, Status, e, Recovered)
	})
	scheduleContact(k, e, p)
}

func scheduleContact(k *sim.Kernel, e sim.EntityID, p params) {
	contacts := rng.Get(k, contactStream)
	plan(k, k.Now()+contacts.ExpFloat64()/p.beta, func(k *sim.Kernel) {
		contact(k, e, p)
	})
}

// contact resolves one contact by an infectious entity: a uniformly
// chosen other member of its region is infected if susceptible. An
// entity that recovered before its pending contact fired stops
// contacting.
func contact(k *sim.Kernel, e sim.EntityID, p params) {
	if prop.Get(k, Status, e) != Infectious {
		return
	}

	r := region.Of(k, e)
	susceptible := part.Count(k, ByState, State{Region: r, Compartment: Susceptible})
	others := regionPopulation(k, r) - 1

	if susceptible > 0 && others > 0 {
		contacts := rng.Get(k, contactStream)
		if contacts.Float64()*float64(others) < float64(susceptible) {
			if victim, ok := part.EntityAt(k, ByState, State{Region: r, Compartment: Susceptible}, contacts.IntN(susceptible)); ok {
				infect(k, victim, p)
			}
		}
	}

	scheduleContact(k, e, p)
}

func regionPopulation(k *sim.Kernel, r region.ID) int {
	n := 0
	for c := Susceptible; c <= Recovered; c++ {
		n += part.Count(k, ByState, State{Region: r, Compartment: c})
	}
	return n
}

func countAll(k *sim.Kernel, p params, c Compartment) int {
	n := 0
	for r := 0; r < p.regions; r++ {
		n += part.Count(k, ByState, State{Region: region.ID(r), Compartment: c})
	}
	return n
}

// scheduleSampler emits one timeseries row per day, starting at day
// zero, until the horizon passes or no infectious entities remain.
func scheduleSampler(k *sim.Kernel, p params) {
	lastCumulative := 0
	var sample sim.Command
	sample = func(k *sim.Kernel) {
		total := global.Get(k, cumulativeCases)
		row := TimeseriesRow{
			Day:         int(k.Now()),
			Susceptible: countAll(k, p, Susceptible),
			Infectious:  countAll(k, p, Infectious),
			Recovered:   countAll(k, p, Recovered),
			NewCases:    total - lastCumulative,
		}
		lastCumulative = total
		report.Release(k, Timeseries, row)

		if row.Infectious > 0 && row.Day < p.days {
			plan(k, float64(row.Day+1), sample)
		}
	}
	plan(k, 0, sample)
}

// plan schedules an action at a model-computed time. The offsets are
// finite and non-negative, so scheduling cannot fail.
func plan(k *sim.Kernel, at float64, action sim.Command) {
	if _, err := k.AddPlan(at, action); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "scheduling epidemic event"))
	}
}
