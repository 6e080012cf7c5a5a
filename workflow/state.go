package workflow

// State is a step of the verification workflow.
type State int

const (
	StateIdle State = iota
	StateHashing
	StateChecking
	StateFound
	StateNotFound
	StateStoring
	StateStored
	StateError
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateHashing:  "hashing",
	StateChecking: "checking",
	StateFound:    "found",
	StateNotFound: "not_found",
	StateStoring:  "storing",
	StateStored:   "stored",
	StateError:    "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether a run can end in s. not_found is terminal only
// when auto-registration is disabled.
func (s State) Terminal(autoRegister bool) bool {
	switch s {
	case StateFound, StateStored, StateError:
		return true
	case StateNotFound:
		return !autoRegister
	default:
		return false
	}
}

// allowed lists the legal transitions.
var allowed = map[State][]State{
	StateIdle:     {StateHashing, StateChecking},
	StateHashing:  {StateChecking, StateError},
	StateChecking: {StateFound, StateNotFound, StateError},
	StateNotFound: {StateStoring},
	StateStoring:  {StateStored, StateError},
}

// CanTransition reports whether from → to is a legal transition.
func CanTransition(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}
