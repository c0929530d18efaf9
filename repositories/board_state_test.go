package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjgames/scoreboard/models"
)

func sampleState() BoardState {
	return BoardState{
		Teams: []*models.Team{
			{ID: "team-1", Name: "Equipo A", Points: 7},
			{ID: "team-2", Name: "Equipo B", Points: 0},
		},
		Matches: []models.MatchResult{
			{
				ID:            "m-1",
				GameID:        "2",
				TeamAID:       "team-1",
				TeamBID:       "team-2",
				Outcome:       models.Win("team-1"),
				PointsAwarded: 3,
				Timestamp:     1_700_000_000_123,
			},
			{
				ID:            "m-2",
				GameID:        "1",
				TeamAID:       "team-2",
				TeamBID:       models.NoOpponent,
				Outcome:       models.Win("team-2"),
				PointsAwarded: 4,
				Timestamp:     1_700_000_111_000,
			},
		},
		GeneralEnd: 1_700_010_000_000,
		GameEnd:    1_700_005_000_000,
	}
}

// Сохранение и повторное сохранение загруженного состояния дают
// побайтово идентичные значения всех четырёх ключей.
func TestBoardStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	first := NewMemorySnapshotRepository()
	require.NoError(t, SaveBoardState(ctx, first, sampleState()))

	loaded := LoadBoardState(ctx, first, BoardState{})

	second := NewMemorySnapshotRepository()
	require.NoError(t, SaveBoardState(ctx, second, loaded))

	for _, key := range []string{KeyTeams, KeyMatches, KeyGeneralTimer, KeyGameTimer} {
		want, err := first.Get(ctx, key)
		require.NoError(t, err)
		got, err := second.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, "key %s", key)
	}
}

// Исход матча переживает сериализацию в исходном виде winnerId:
// идентификатор команды либо литерал "draw".
func TestBoardStateOutcomeWireFormat(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository()

	state := sampleState()
	state.Matches[0].Outcome = models.Draw()
	require.NoError(t, SaveBoardState(ctx, repo, state))

	raw, err := repo.Get(ctx, KeyMatches)
	require.NoError(t, err)
	assert.Contains(t, raw, `"winnerId":"draw"`)
	assert.Contains(t, raw, `"winnerId":"team-2"`)
	assert.Contains(t, raw, `"teamBId":"none"`)

	loaded := LoadBoardState(ctx, repo, BoardState{})
	require.Len(t, loaded.Matches, 2)
	assert.True(t, loaded.Matches[0].Outcome.IsDraw())
	winnerID, ok := loaded.Matches[1].Outcome.Winner()
	require.True(t, ok)
	assert.Equal(t, "team-2", winnerID)
}

func TestLoadBoardStateFallsBackPerKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository()

	defaults := BoardState{
		Teams:      models.DefaultRoster(),
		Matches:    []models.MatchResult{},
		GeneralEnd: 111,
		GameEnd:    222,
	}

	// Пустое хранилище — целиком дефолты.
	state := LoadBoardState(ctx, repo, defaults)
	assert.Len(t, state.Teams, 15)
	assert.Equal(t, int64(111), state.GeneralEnd)
	assert.Equal(t, int64(222), state.GameEnd)

	// Битые значения не трогают остальные ключи.
	require.NoError(t, repo.Set(ctx, KeyTeams, "{not json"))
	require.NoError(t, repo.Set(ctx, KeyGeneralTimer, "not-a-number"))
	require.NoError(t, repo.Set(ctx, KeyGameTimer, "333"))

	state = LoadBoardState(ctx, repo, defaults)
	assert.Len(t, state.Teams, 15, "corrupt roster falls back to defaults")
	assert.Equal(t, int64(111), state.GeneralEnd, "corrupt deadline falls back")
	assert.Equal(t, int64(333), state.GameEnd, "valid key loads")
}

func TestMemorySnapshotRepositoryMissingKey(t *testing.T) {
	repo := NewMemorySnapshotRepository()
	_, err := repo.Get(context.Background(), KeyTeams)
	assert.ErrorIs(t, err, ErrSnapshotKeyNotFound)
}
