package domain

// Phase is the lifecycle position of one optimistic toggle.
type Phase int8

const (
	PhaseUnset Phase = iota
	PhasePending
	PhaseSettled
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseUnset:
		return "UNSET"
	case PhasePending:
		return "PENDING"
	case PhaseSettled:
		return "SETTLED"
	case PhaseRolledBack:
		return "ROLLED_BACK"
	default:
		return "UNKNOWN"
	}
}

// Toggle is a boolean piece of UI state mutated through the backend:
// Unset|Settled|RolledBack -> Pending -> Settled|RolledBack.
// The zero value is an Unset toggle holding false. Toggle is not safe for
// concurrent use; owners guard it with their own lock.
type Toggle struct {
	phase Phase
	value bool
	prior bool
}

// NewSettledToggle returns a toggle already reconciled with the server.
func NewSettledToggle(v bool) Toggle {
	return Toggle{phase: PhaseSettled, value: v}
}

// Begin moves the toggle to Pending. It returns false, leaving the toggle
// untouched, when a request is already in flight.
func (t *Toggle) Begin() bool {
	if t.phase == PhasePending {
		return false
	}
	t.prior = t.value
	t.phase = PhasePending
	return true
}

// Settle adopts the server-reported value.
func (t *Toggle) Settle(v bool) {
	t.value = v
	t.phase = PhaseSettled
}

// Rollback restores the value held before Begin.
func (t *Toggle) Rollback() {
	if t.phase != PhasePending {
		return
	}
	t.value = t.prior
	t.phase = PhaseRolledBack
}

// Value is the last known-good value (the prior value while Pending).
func (t Toggle) Value() bool {
	if t.phase == PhasePending {
		return t.prior
	}
	return t.value
}

func (t Toggle) Phase() Phase {
	return t.phase
}

func (t Toggle) Pending() bool {
	return t.phase == PhasePending
}
