package patient

import (
	"time"
)

// InactivityMonths is how many calendar months after the last visit an
// Active patient without a scheduled follow-up becomes Inactive.
const InactivityMonths = 3

// StatusChange records one transition made by a sweep.
type StatusChange struct {
	PatientID int    `json:"patient_id"`
	From      Status `json:"from"`
	To        Status `json:"to"`
}

// DeriveStatus returns the status p should have at now. Only Active ->
// Inactive is ever derived; Inactive patients are returned unchanged.
func DeriveStatus(now time.Time, p Patient) Status {
	if p.Status != StatusActive || p.LastVisit == nil || p.HasNextVisit() {
		return p.Status
	}
	last, ok := parseDate(*p.LastVisit)
	if !ok {
		return p.Status
	}
	// Visit dates are recorded in UTC.
	if monthsBetween(last.UTC(), now.UTC()) >= InactivityMonths {
		return StatusInactive
	}
	return p.Status
}

// DeriveStatuses applies DeriveStatus to every patient. The input is not
// modified; the returned slice shares nothing with it.
func DeriveStatuses(now time.Time, patients []Patient) ([]Patient, []StatusChange) {
	out := clonePatients(patients)
	var changes []StatusChange
	for i := range out {
		next := DeriveStatus(now, out[i])
		if next != out[i].Status {
			changes = append(changes, StatusChange{PatientID: out[i].ID, From: out[i].Status, To: next})
			out[i].Status = next
		}
	}
	return out, changes
}

// monthsBetween counts calendar month boundaries, ignoring the day of month:
// 2026-07-31 to 2026-10-01 is 3 months.
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
