package generation

import "github.com/vividoc-ai/vividoc/pkg/jobs"

// stageWeights maps a unit's stage status to its contribution to the
// overall percentage. The split is a heuristic and lives in this one
// table so it can be retuned without touching the aggregation logic.
var stageWeights = map[jobs.StageStatus]float64{
	jobs.StagePending:   0.0,
	jobs.StageOne:       0.25,
	jobs.StageTwo:       0.75,
	jobs.StageCompleted: 1.0,
}

// Bridge adapts engine events into registry progress updates for one
// job. It owns the job's unit-progress list: fixed length (one entry
// per spec unit, spec order), seeded to pending at job start.
//
// The bridge is only ever called from the job's single worker goroutine,
// so it needs no locking of its own; the registry serializes the actual
// writes.
type Bridge struct {
	registry *jobs.Registry
	jobID    string
	units    []jobs.UnitProgress
}

// NewBridge creates a bridge for a job with the given pre-seeded unit
// list.
func NewBridge(registry *jobs.Registry, jobID string, units []jobs.UnitProgress) *Bridge {
	return &Bridge{registry: registry, jobID: jobID, units: units}
}

// OnEvent handles one engine event: it advances the matching unit's
// status (when the event names a unit and stage), recomputes the overall
// percentage and forwards the full snapshot to the registry. Events
// without a unit still update phase and percentage, leaving the unit
// list untouched.
func (b *Bridge) OnEvent(ev Event) {
	if ev.UnitID != "" && ev.Stage != "" {
		for i := range b.units {
			if b.units[i].UnitID == ev.UnitID {
				b.units[i].Status = ev.Stage
				break
			}
		}
	}

	percent := OverallPercent(b.units)

	b.registry.Update(b.jobID, jobs.Update{
		Phase:          &ev.Phase,
		OverallPercent: &percent,
		CurrentUnit:    &ev.UnitID,
		CurrentStage:   &ev.Stage,
		Units:          b.units,
	})
}

// OverallPercent computes the weighted completion percentage over all
// units. An empty list yields 0.
func OverallPercent(units []jobs.UnitProgress) float64 {
	if len(units) == 0 {
		return 0.0
	}
	var sum float64
	for _, u := range units {
		sum += stageWeights[u.Status]
	}
	return sum / float64(len(units)) * 100.0
}
