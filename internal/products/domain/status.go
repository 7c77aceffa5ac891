package domain

// Status is the closed set of interest states. An interest starts pending
// and is decided exactly once by the product owner.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Decided reports whether the status is terminal.
func (s Status) Decided() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether from -> to is an allowed transition.
// Only pending -> accepted and pending -> rejected exist.
func CanTransition(from, to Status) bool {
	return from == StatusPending && to.Decided()
}
