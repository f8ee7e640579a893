package evidence

import (
	"time"

	"github.com/sells-group/prospect-cli/internal/rules"
)

// decayedConfidence applies the field's decay schedule to the record's base
// confidence. Fields without a schedule never decay. Decay is a linear step:
// one StepDown per full IntervalDays elapsed since the evidence timestamp.
// The result is clamped to [0,1]; evidence observed in the future does not
// gain confidence.
func decayedConfidence(e *Evidence, schedules map[string]rules.DecaySchedule, now time.Time) float64 {
	sched, ok := schedules[e.FieldName]
	if !ok || sched.IntervalDays <= 0 {
		return clamp01(e.Meta.Confidence)
	}

	age := now.Sub(e.Meta.Timestamp)
	if age <= 0 {
		return clamp01(e.Meta.Confidence)
	}

	steps := int(age.Hours() / 24 / float64(sched.IntervalDays))
	return clamp01(e.Meta.Confidence - float64(steps)*sched.StepDown)
}

func clamp01(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
