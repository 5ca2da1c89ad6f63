package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the game loop to work with intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionStart          // Enter - start a new game
	ActionPause          // Space, P - pause/unpause
	ActionRestart        // R - reset to a fresh game
	ActionScores         // Tab - show the scoreboard
	ActionBack           // Esc - leave the current screen
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionScores:
		return "Scores"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsDirectional reports whether the action steers the snake.
func (a Action) IsDirectional() bool {
	return a >= ActionUp && a <= ActionRight
}
