package drawer

// State is the drawer's main view mode. The confirm-delete dialogue is an
// overlay addressable from LIST (bulk) or VIEW (single), not a state of its
// own: cancelling it returns to whatever state opened it.
type State int

const (
	StateList State = iota
	StateView
	StateAdd
	StateEdit
)

func (s State) String() string {
	switch s {
	case StateList:
		return "list"
	case StateView:
		return "view"
	case StateAdd:
		return "add"
	case StateEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Event is a user action driving the state machine.
type Event int

const (
	EventSelect Event = iota
	EventBack
	EventAdd
	EventEdit
	EventSubmit
	EventCancel
	EventDeleted
)

// transitions is the declarative table of legal moves. An event missing for
// the current state is silently ignored, which is how stray clicks behave.
var transitions = map[State]map[Event]State{
	StateList: {
		EventSelect:  StateView,
		EventAdd:     StateAdd,
		EventDeleted: StateList,
	},
	StateView: {
		EventBack:    StateList,
		EventEdit:    StateEdit,
		EventDeleted: StateList,
	},
	StateAdd: {
		EventSubmit: StateView,
		EventCancel: StateList,
	},
	StateEdit: {
		EventSubmit: StateView,
		EventCancel: StateView,
	},
}

func next(from State, ev Event) (State, bool) {
	to, ok := transitions[from][ev]
	return to, ok
}
