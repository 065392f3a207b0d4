package availability

import "time"

// EarliestStart returns the first minute-of-day that may still be offered
// today: now plus the lead time, rounded up to the next granularity boundary.
// A value already on a boundary is kept; partial minutes count as a full one.
func EarliestStart(nowLocal time.Time, leadMin, granularityMin int) int {
	m := nowLocal.Hour()*60 + nowLocal.Minute()
	if nowLocal.Second() > 0 || nowLocal.Nanosecond() > 0 {
		m++
	}
	m += leadMin
	if granularityMin > 0 {
		if rem := m % granularityMin; rem != 0 {
			m += granularityMin - rem
		}
	}
	return m
}

// Guard removes candidates that are too close to now. It only applies when
// date is the same local calendar day as now.
func Guard(candidates []string, now, date time.Time, loc *time.Location, leadMin, granularityMin int) []string {
	if !SameDay(now, date, loc) {
		return candidates
	}

	earliest := EarliestStart(now.In(loc), leadMin, granularityMin)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		m, err := ParseLabel(c)
		if err != nil || m < earliest {
			continue
		}
		out = append(out, c)
	}
	return out
}
