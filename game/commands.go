package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrUnknownCommand is returned for a token outside the command set.
var ErrUnknownCommand = errors.New("unknown command")

// Command tokens accepted from the keyboard and the remote channel alike.
const (
	CmdTurnLeft  = "turn_left"
	CmdHardLeft  = "hard_left"
	CmdTurnRight = "turn_right"
	CmdHardRight = "hard_right"
	CmdCentre    = "centre"
	CmdSpeedUp   = "speed_up"
	CmdSlowDown  = "slow_down"
	CmdFire      = "fire"
)

// Commands lists every token ParseCommand accepts.
var Commands = []string{
	CmdTurnLeft, CmdHardLeft, CmdTurnRight, CmdHardRight,
	CmdCentre, CmdSpeedUp, CmdSlowDown, CmdFire,
}

// ParseCommand maps a command token to its order. rng picks the battle cry
// for fire.
func ParseCommand(token string, rng *rand.Rand) (Order, error) {
	switch token {
	case CmdTurnLeft:
		return NewHelmOrder(Port, 2)
	case CmdHardLeft:
		return NewHelmOrder(Port, 3)
	case CmdTurnRight:
		return NewHelmOrder(Starboard, 2)
	case CmdHardRight:
		return NewHelmOrder(Starboard, 3)
	case CmdCentre:
		return NewHelmOrder(Port, 0)
	case CmdSpeedUp:
		return NewAccelerateOrder(1)
	case CmdSlowDown:
		return NewDecelerateOrder(1)
	case CmdFire:
		return NewFireOrder(rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
}
