package repository_test

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/repository"
	"github.com/rocketscienceinc/tictactoe-tcp/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, s := suite.New(t)
	repo := repository.NewResultRepository(s.Storage)

	t.Run("Records and retrieves a finished match", func(t *testing.T) {
		// Given: a finished match won by X
		result := &entity.MatchResult{
			MatchID:    100,
			PlayerX:    "alice",
			PlayerO:    "bob",
			Winner:     entity.WinnerX,
			FinalGrid:  "XXXOO    ",
			FinishedAt: time.Now().UTC().Truncate(time.Second),
		}

		// When: the result is recorded
		require.NoError(t, repo.RecordResult(ctx, result))

		// Then: it can be read back intact
		stored, err := repo.GetByMatchID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, result, stored)

		// And: the winner's counter was bumped
		wins, err := repo.WinsByPlayer(ctx, "alice")
		require.NoError(t, err)
		assert.EqualValues(t, 1, wins)
	})

	t.Run("A tie bumps nobody's counter", func(t *testing.T) {
		// Given: a drawn match
		result := &entity.MatchResult{
			MatchID:    101,
			PlayerX:    "carol",
			PlayerO:    "dave",
			Winner:     entity.WinnerTie,
			FinalGrid:  "XXOOOXXXO",
			FinishedAt: time.Now().UTC().Truncate(time.Second),
		}

		// When: the result is recorded
		require.NoError(t, repo.RecordResult(ctx, result))

		// Then: neither player gained a win
		for _, name := range []string{"carol", "dave"} {
			wins, err := repo.WinsByPlayer(ctx, name)
			require.NoError(t, err)
			assert.Zerof(t, wins, "player %s should have no wins", name)
		}
	})

	t.Run("Unknown match id is reported as missing", func(t *testing.T) {
		// When: looking up a match that never happened
		_, err := repo.GetByMatchID(ctx, 9999)

		// Then: the repository reports it missing
		assert.ErrorIs(t, err, repository.ErrResultNotFound)
	})

	t.Run("Wins accumulate across matches", func(t *testing.T) {
		// Given: the same player winning twice more
		for matchID := uint32(200); matchID < 202; matchID++ {
			result := &entity.MatchResult{
				MatchID:    matchID,
				PlayerX:    "erin",
				PlayerO:    "frank",
				Winner:     entity.WinnerX,
				FinalGrid:  "XXXOO    ",
				FinishedAt: time.Now().UTC(),
			}
			require.NoError(t, repo.RecordResult(ctx, result))
		}

		// Then: the counter reflects both wins
		wins, err := repo.WinsByPlayer(ctx, "erin")
		require.NoError(t, err)
		assert.EqualValues(t, 2, wins)
	})
}
