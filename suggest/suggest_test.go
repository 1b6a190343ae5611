package suggest

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"dipnego/game"
	"dipnego/strategy"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// startServer runs policy on a random local port and returns a client for it.
func startServer(t *testing.T, policy Policy) *Client {
	t.Helper()

	srv := NewServer(policy)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.ServeOn(lis)

	c, err := Dial(lis.Addr().String(), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		c.Close()
		srv.GracefulStop()
	})
	return c
}

func TestSuggestRoundTrip(t *testing.T) {
	var seen Request
	want := strategy.Suggestion{
		PhasesAhead:   2,
		DefendUnit:    strategy.Action{Execute: true, Index: 1},
		SupportAttack: strategy.Action{Execute: true, Index: 4},
	}
	c := startServer(t, func(_ context.Context, req Request) (strategy.Suggestion, error) {
		seen = req
		return want, nil
	})

	sc := strategy.NewContext(game.StandardGame(), "FRA", nil)
	got, err := c.Suggest(context.Background(), sc)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.Equal(t, game.Power("FRA"), seen.Me)
	require.Equal(t, game.Time{Year: 1901, Phase: game.Spring}, seen.Time)
	require.Equal(t, []game.Territory{"BRE", "MAR", "PAR"}, seen.Units)
	require.Equal(t, []game.Territory{"BRE", "MAR", "PAR"}, seen.SupplyCenters)
	require.Equal(t, []game.Power{"ENG", "GER", "ITA"}, seen.Negotiating)
}

func TestSuggestPolicyError(t *testing.T) {
	c := startServer(t, func(context.Context, Request) (strategy.Suggestion, error) {
		return strategy.Suggestion{}, errors.New("model not loaded")
	})

	_, err := c.Suggest(context.Background(), strategy.NewContext(game.StandardGame(), "FRA", nil))
	require.Error(t, err)
	require.Equal(t, codes.Internal, status.Code(errors.Unwrap(err)))
}

func TestSuggestFeedsTemplate(t *testing.T) {
	c := startServer(t, nil)

	gs := game.StandardGame()
	gs.PlaceUnit("GER", "BUR")
	g := strategy.NewTemplate(c)
	deals, err := g.Generate(context.Background(), strategy.NewContext(gs, "FRA", nil))
	require.NoError(t, err)
	require.NotEmpty(t, deals)
	for _, d := range deals {
		require.NoError(t, d.Validate("FRA"))
	}
}

func TestDefaultPolicy(t *testing.T) {
	req := Request{
		Me:          "FRA",
		Time:        game.Time{Year: 1901, Phase: game.Spring},
		Units:       []game.Territory{"BRE", "MAR", "PAR"},
		Negotiating: []game.Power{"ENG", "GER"},
	}

	spring, err := DefaultPolicy(context.Background(), req)
	require.NoError(t, err)
	require.True(t, spring.DefendUnit.Execute)
	require.True(t, spring.DefendSC.Execute)
	require.False(t, spring.Attack.Execute)
	require.Equal(t, 1901%3, spring.DefendUnit.Index)

	req.Time.Phase = game.Fall
	fall, err := DefaultPolicy(context.Background(), req)
	require.NoError(t, err)
	require.True(t, fall.Attack.Execute)
	require.True(t, fall.SupportAttack.Execute)
	require.False(t, fall.DefendUnit.Execute)
}

func TestLocal(t *testing.T) {
	var got Request
	source := Local(func(_ context.Context, req Request) (strategy.Suggestion, error) {
		got = req
		return strategy.Suggestion{PhasesAhead: 2}, nil
	})

	s, err := source.Suggest(context.Background(), strategy.NewContext(game.StandardGame(), "FRA", nil))
	require.NoError(t, err)
	require.Equal(t, 2, s.PhasesAhead)
	require.Equal(t, game.Power("FRA"), got.Me)
	require.Equal(t, []game.Territory{"BRE", "MAR", "PAR"}, got.Units)
	require.Equal(t, []game.Power{"ENG", "GER", "ITA"}, got.Negotiating)
}
