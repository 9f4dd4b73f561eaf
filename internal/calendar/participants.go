package calendar

import "strings"

// Participant is the resolved counterpart of a meeting: the first
// attendee who is neither the organizer nor on the operator's own domain.
type Participant struct {
	Name  string
	Email string
}

// ResolveParticipants picks the meeting counterpart from the attendee
// list. ownDomain is matched as "@domain" suffix-insensitively anywhere in
// the address, mirroring how internal staff appear on these invites.
// Absent data degrades to empty fields; there is no error case.
func ResolveParticipants(organizerEmail string, attendees []Attendee, ownDomain string) Participant {
	marker := "@" + ownDomain
	for _, a := range attendees {
		if a.Email == "" || a.Email == organizerEmail {
			continue
		}
		if ownDomain != "" && strings.Contains(a.Email, marker) {
			continue
		}
		return Participant{Name: a.DisplayName, Email: a.Email}
	}
	return Participant{}
}
