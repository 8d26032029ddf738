package entity

// ApprovalStatus is the lifecycle state shared by club memberships and events.
//
// pending -> approved and pending -> rejected are the only transitions,
// approved and rejected are terminal.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s ApprovalStatus) CanTransition(to ApprovalStatus) bool {
	return s == StatusPending && to.IsTerminal()
}

// ParseOutcome accepts only the decision outcomes (approved, rejected).
func ParseOutcome(value string) (ApprovalStatus, bool) {
	status := ApprovalStatus(value)
	if !status.IsTerminal() {
		return "", false
	}
	return status, true
}
