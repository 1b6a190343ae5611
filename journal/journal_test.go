package journal

import (
	"path/filepath"
	"testing"

	"dipnego/game"

	"github.com/stretchr/testify/require"
)

var spring1901 = game.Time{Year: 1901, Phase: game.Spring}

func TestStore(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(Event{Power: "FRA", Time: spring1901, Kind: ProposeSent, ProposalID: "p-1", Deal: "[...]"}))
	require.NoError(t, s.Record(Event{Power: "GER", Time: spring1901, Kind: AcceptSent, ProposalID: "p-1", Peer: "FRA"}))
	require.NoError(t, s.Record(Event{Power: "FRA", Time: spring1901, Kind: Confirmed, ProposalID: "p-1"}))

	all, err := s.Events("")
	require.NoError(t, err)
	require.Len(t, all, 3)

	fra, err := s.Events("FRA")
	require.NoError(t, err)
	require.Len(t, fra, 2)
	require.Equal(t, ProposeSent, fra[0].Kind)
	require.Equal(t, Confirmed, fra[1].Kind)
	require.Equal(t, spring1901, fra[0].Time)
	require.Equal(t, "p-1", fra[0].ProposalID)
	require.False(t, fra[0].RecordedAt.IsZero())
	require.Less(t, fra[0].ID, fra[1].ID)

	ger, err := s.Events("GER")
	require.NoError(t, err)
	require.Len(t, ger, 1)
	require.Equal(t, game.Power("FRA"), ger[0].Peer)
}

func TestStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(Event{Power: "ITA", Time: spring1901.Advance(2), Kind: Dropped, Detail: "outdated"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.Events("ITA")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, game.Time{Year: 1901, Phase: game.Fall}, events[0].Time)
	require.Equal(t, "outdated", events[0].Detail)
}
