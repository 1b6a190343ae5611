package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHistory(t *testing.T) {
	current := Time{Year: 1902, Phase: Fall}
	phases := []Phase{Spring, Summer, Fall, Autumn, Winter}

	t.Run("every earlier round is history", func(t *testing.T) {
		for _, year := range []int{1900, 1901} {
			for _, phase := range phases {
				require.True(t, current.IsHistory(phase, year), "%s %d should be history", phase, year)
			}
		}
		require.True(t, current.IsHistory(Spring, 1902))
		require.True(t, current.IsHistory(Summer, 1902))
	})

	t.Run("current round is not history", func(t *testing.T) {
		require.False(t, current.IsHistory(Fall, 1902))
	})

	t.Run("later rounds are not history", func(t *testing.T) {
		require.False(t, current.IsHistory(Autumn, 1902))
		require.False(t, current.IsHistory(Winter, 1902))
		for _, phase := range phases {
			require.False(t, current.IsHistory(phase, 1903))
		}
	})

	t.Run("spring DMZ is outdated in fall of the same year", func(t *testing.T) {
		fall := Time{Year: 1901, Phase: Fall}
		require.True(t, fall.IsHistory(Spring, 1901))
	})

	t.Run("unknown phase in the current year is history", func(t *testing.T) {
		require.True(t, current.IsHistory(UnknownPhase, 1902))
	})
}

func TestTimeBefore(t *testing.T) {
	require.True(t, Time{Year: 1901, Phase: Winter}.Before(Time{Year: 1902, Phase: Spring}))
	require.False(t, Time{Year: 1902, Phase: Spring}.Before(Time{Year: 1902, Phase: Spring}))
	require.False(t, Time{Year: 1902, Phase: Summer}.Before(Time{Year: 1902, Phase: Spring}))
}

func TestTimeAdvance(t *testing.T) {
	start := Time{Year: 1901, Phase: Fall}

	require.Equal(t, start, start.Advance(0))
	require.Equal(t, Time{Year: 1901, Phase: Autumn}, start.Advance(1))
	require.Equal(t, Time{Year: 1901, Phase: Winter}, start.Advance(2))
	require.Equal(t, Time{Year: 1902, Phase: Spring}, start.Advance(3), "Advancing past winter should wrap into next year")
	require.Equal(t, Time{Year: 1902, Phase: Fall}, start.Advance(5))
	require.Equal(t, Time{Year: 1903, Phase: Summer}, start.Advance(9))
}

func TestParsePhase(t *testing.T) {
	for _, phase := range []Phase{Spring, Summer, Fall, Autumn, Winter} {
		got, err := ParsePhase(phase.String())
		require.NoError(t, err)
		require.Equal(t, phase, got)
	}

	_, err := ParsePhase("XXX")
	require.Error(t, err)
}
