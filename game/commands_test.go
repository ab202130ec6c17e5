package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		token string
		kind  string
		helm  int
		sail  int
	}{
		{CmdTurnLeft, "helm", 2, 0},
		{CmdHardLeft, "helm", 3, 0},
		{CmdTurnRight, "helm", -2, 0},
		{CmdHardRight, "helm", -3, 0},
		{CmdCentre, "helm", 0, 0},
		{CmdSpeedUp, "accelerate", 0, 1},
		{CmdSlowDown, "decelerate", 0, 1},
		{CmdFire, "fire", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			o, err := ParseCommand(tt.token, rng)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, o.Kind())
			switch o := o.(type) {
			case *HelmOrder:
				assert.Equal(t, tt.helm, o.Strength)
			case *AccelerateOrder:
				assert.Equal(t, tt.sail, o.Strength)
			case *DecelerateOrder:
				assert.Equal(t, tt.sail, o.Strength)
			}
		})
	}
	assert.Len(t, Commands, len(tests))
}

func TestParseCommandUnknown(t *testing.T) {
	o, err := ParseCommand("abandon_ship", nil)
	assert.Nil(t, o)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
