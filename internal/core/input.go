package core

// Action is a semantic player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionApprove        // S, Space - stamp the document at the head of the queue
	ActionToggle         // A - flip the inspector between approve and reject
	ActionPause          // P, Escape - pause/resume
	ActionRestart        // R - start a new run after game over
	ActionUp             // Up, W, K - menu navigation
	ActionDown           // Down, J - menu navigation
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B - go back to menu
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionApprove:
		return "Approve"
	case ActionToggle:
		return "Toggle"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds every action triggered during one platform frame.
// Order is preserved because a toggle followed by an approve in the same
// frame must resolve against the toggled status.
type InputFrame struct {
	actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records an action for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.actions = append(f.actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.actions {
		if got == a {
			return true
		}
	}
	return false
}

// Actions returns the actions in the order they were triggered.
func (f InputFrame) Actions() []Action {
	return f.actions
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.actions = nil
}
