package twofactor

// State is the lifecycle stage of a user's second factor.
type State string

const (
	StateNotSetUp            State = "not_set_up"
	StatePendingVerification State = "pending_verification"
	StateEnabled             State = "enabled"
	StateDisabled            State = "disabled"
)

// Event triggers a lifecycle transition.
type Event string

const (
	EventSetup   Event = "setup"
	EventConfirm Event = "confirm"
	EventDisable Event = "disable"
)

// transitions lists every allowed move. Re-running setup while pending
// replaces the pending secret.
var transitions = map[State]map[Event]State{
	StateNotSetUp: {
		EventSetup: StatePendingVerification,
	},
	StatePendingVerification: {
		EventSetup:   StatePendingVerification,
		EventConfirm: StateEnabled,
	},
	StateEnabled: {
		EventDisable: StateDisabled,
	},
	StateDisabled: {
		EventSetup: StatePendingVerification,
	},
}

// stateOf derives the state from a record; nil means no record.
func stateOf(rec *Record) State {
	switch {
	case rec == nil:
		return StateNotSetUp
	case !rec.Verified:
		return StatePendingVerification
	case rec.Enabled:
		return StateEnabled
	default:
		return StateDisabled
	}
}

// transition returns the next state or the domain error for a refused event.
func transition(from State, ev Event) (State, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}

	switch ev {
	case EventSetup:
		return from, ErrAlreadyEnabled
	case EventConfirm:
		if from == StateEnabled {
			return from, ErrAlreadyVerified
		}
		return from, ErrNotSetUp
	default:
		return from, ErrNotSetUp
	}
}
