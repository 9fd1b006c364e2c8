package models

// Status is the lifecycle state of a blood unit. Values are wire-stable; the
// transfer log and external collaborators depend on the numeric encoding.
type Status uint8

const (
	StatusDonated     Status = 0
	StatusTesting     Status = 1
	StatusQualified   Status = 2
	StatusUnqualified Status = 3
	StatusStored      Status = 4
	StatusDistributed Status = 5
	StatusUsed        Status = 6
	StatusExpired     Status = 7
)

var statusNames = map[Status]string{
	StatusDonated:     "Donated",
	StatusTesting:     "Testing",
	StatusQualified:   "Qualified",
	StatusUnqualified: "Unqualified",
	StatusStored:      "Stored",
	StatusDistributed: "Distributed",
	StatusUsed:        "Used",
	StatusExpired:     "Expired",
}

// Name returns the label for the status, or "Unknown" for out-of-range values.
func (s Status) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsValid reports whether s is one of the eight defined states.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// IsTerminal reports whether no further transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusExpired
}

// allowedTransitions is the single source of truth for forward lifecycle
// moves. Expiry is handled separately: any non-terminal state may move to
// StatusExpired.
var allowedTransitions = map[Status][]Status{
	StatusDonated:     {StatusTesting, StatusUnqualified},
	StatusTesting:     {StatusQualified, StatusUnqualified},
	StatusQualified:   {StatusStored},
	StatusStored:      {StatusDistributed},
	StatusDistributed: {StatusUsed},
}

// CanTransitionTo is the pure transition guard. No self-loops; the only
// self-loop in a unit's history is the creation record, which is written
// outside the guard.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusExpired {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}
