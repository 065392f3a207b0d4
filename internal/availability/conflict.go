package availability

import "clinicbook/pkg/model"

// BookedLabels picks the slot labels already taken by resourceID on dateKey.
func BookedLabels(booked []model.BookedSlot, resourceID, dateKey string) []string {
	var labels []string
	for _, b := range booked {
		if b.ResourceID == resourceID && b.DateKey == dateKey {
			labels = append(labels, b.Slot)
		}
	}
	return labels
}

// ExcludeBooked drops candidates whose label exactly matches a booked label.
// Bookings carry no duration, so a longer appointment starting earlier does
// not block the labels it overlaps.
func ExcludeBooked(candidates, bookedLabels []string) []string {
	taken := make(map[string]struct{}, len(bookedLabels))
	for _, l := range bookedLabels {
		taken[l] = struct{}{}
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := taken[c]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}
