// Package core provides the input vocabulary shared by every shell that
// drives a game session. It has no external dependencies so the mapping from
// physical keys to actions stays testable on its own.
package core

// Action represents a semantic player intent, abstracted from key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionNorth          // k, Up arrow - step one tile north
	ActionSouth          // j, Down arrow - step one tile south
	ActionEast           // l, Right arrow - step one tile east
	ActionWest           // h, Left arrow - step one tile west
	ActionCollect        // c/C - take coins from the selected cache
	ActionDeposit        // d/D - leave coins in the selected cache
	ActionReset          // R twice - wipe the session and start over
	ActionFeed           // f - toggle the location feed
	ActionQuit           // q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionNorth:
		return "North"
	case ActionSouth:
		return "South"
	case ActionEast:
		return "East"
	case ActionWest:
		return "West"
	case ActionCollect:
		return "Collect"
	case ActionDeposit:
		return "Deposit"
	case ActionReset:
		return "Reset"
	case ActionFeed:
		return "Feed"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction is a one-tile movement on the grid.
type Direction int

const (
	DirNone Direction = iota
	DirNorth
	DirSouth
	DirEast
	DirWest
)

// Delta returns the cell offset (di, dj) for the direction.
// Latitude grows northward, longitude grows eastward.
func (d Direction) Delta() (di, dj int) {
	switch d {
	case DirNorth:
		return 1, 0
	case DirSouth:
		return -1, 0
	case DirEast:
		return 0, 1
	case DirWest:
		return 0, -1
	default:
		return 0, 0
	}
}

// String returns the compass name of the direction.
func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "north"
	case DirSouth:
		return "south"
	case DirEast:
		return "east"
	case DirWest:
		return "west"
	default:
		return "none"
	}
}

// Direction returns the movement carried by a move action, or DirNone.
func (a Action) Direction() Direction {
	switch a {
	case ActionNorth:
		return DirNorth
	case ActionSouth:
		return DirSouth
	case ActionEast:
		return DirEast
	case ActionWest:
		return DirWest
	default:
		return DirNone
	}
}

// IsMove reports whether the action moves the player.
func (a Action) IsMove() bool {
	return a.Direction() != DirNone
}
