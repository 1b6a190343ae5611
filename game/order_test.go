package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderConstructors(t *testing.T) {
	t.Run("support keeps a value copy of the supported hold", func(t *testing.T) {
		hold := NewHold("GER", "MUN")
		support := NewSupport("FRA", "BUR", hold)

		got, ok := support.Supported()

		require.True(t, ok)
		require.Equal(t, hold, got)
		require.Equal(t, Territory("BUR"), support.Destination(), "Supporting unit stays in place")
	})

	t.Run("support move carries the destination of the supported move", func(t *testing.T) {
		move := NewMove("FRA", "BUR", "MUN")
		support := NewSupportMove("ITA", "TYR", move)

		got, ok := support.Supported()

		require.True(t, ok)
		require.Equal(t, move, got)
		require.Equal(t, Territory("MUN"), support.Dest)
		require.Equal(t, Territory("TYR"), support.Destination())
	})

	t.Run("orders compare by value", func(t *testing.T) {
		require.Equal(t, NewMove("FRA", "PAR", "BUR"), NewMove("FRA", "PAR", "BUR"))
		require.NotEqual(t, NewMove("FRA", "PAR", "BUR"), NewMove("FRA", "PAR", "PIC"))
	})

	t.Run("hold and move have no supported order", func(t *testing.T) {
		_, ok := NewHold("FRA", "PAR").Supported()
		require.False(t, ok)
		_, ok = NewMove("FRA", "PAR", "BUR").Supported()
		require.False(t, ok)
	})
}

func TestOrderIsWellFormed(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"hold", NewHold("FRA", "PAR"), true},
		{"move", NewMove("FRA", "PAR", "BUR"), true},
		{"move in place", NewMove("FRA", "PAR", "PAR"), false},
		{"support hold", NewSupport("FRA", "PAR", NewHold("GER", "BUR")), true},
		{"support self", NewSupport("FRA", "PAR", NewHold("FRA", "PAR")), false},
		{"support move", NewSupportMove("FRA", "PAR", NewMove("GER", "BUR", "PIC")), true},
		{"unknown kind", Order{Kind: UnknownOrder, Power: "FRA", Unit: "PAR"}, false},
		{"out of range kind", Order{Kind: OrderKind(42), Power: "FRA", Unit: "PAR"}, false},
		{"missing power", Order{Kind: Hold, Unit: "PAR"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.order.IsWellFormed())
		})
	}
}
