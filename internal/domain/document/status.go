package document

// Status is the preload workflow state of a document
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreloaded Status = "PRELOADED"
	StatusObserved  Status = "OBSERVED"
	StatusRejected  Status = "REJECTED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// AllStatuses lists every status in workflow order
func AllStatuses() []Status {
	return []Status{StatusPending, StatusPreloaded, StatusObserved, StatusRejected, StatusPaid, StatusCancelled}
}

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPreloaded, StatusObserved, StatusRejected, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo checks if the status can move to target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusPreloaded || target == StatusObserved || target == StatusRejected || target == StatusCancelled
	case StatusObserved:
		return target == StatusPending || target == StatusCancelled
	case StatusPreloaded:
		return target == StatusPaid || target == StatusRejected
	}
	return false
}
