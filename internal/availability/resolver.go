package availability

// ResolveCandidates walks the working window [startHour:00, endHour:00) in
// granularity steps and keeps every start whose appointment still ends within
// the window. Degenerate inputs yield an empty, non-nil slice.
func ResolveCandidates(startHour, endHour, durationMin, granularityMin int) []string {
	slots := []string{}
	if granularityMin <= 0 || durationMin <= 0 {
		return slots
	}
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return slots
	}

	windowStart, windowEnd := startHour*60, endHour*60
	for m := windowStart; m+durationMin <= windowEnd; m += granularityMin {
		slots = append(slots, Label(m))
	}
	return slots
}
