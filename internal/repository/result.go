package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/entity"
)

var ErrResultNotFound = errors.New("match result not found")

// ResultRepository - archive of finished matches. Only terminal outcomes
// land here; live games stay in memory and die with the process.
type ResultRepository interface {
	RecordResult(ctx context.Context, result *entity.MatchResult) error
	GetByMatchID(ctx context.Context, matchID uint32) (*entity.MatchResult, error)
	WinsByPlayer(ctx context.Context, name string) (int64, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

// RecordResult - stores the finished match and bumps the winner's
// counter.
func (that *dbResult) RecordResult(ctx context.Context, result *entity.MatchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal match result: %w", err)
	}

	if err = that.client.Set(ctx, resultKey(result.MatchID), resultJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set match result: %w", err)
	}

	winner := result.WinnerName()
	if winner == "" {
		return nil
	}

	if err = that.client.Incr(ctx, winsKey(winner)).Err(); err != nil {
		return fmt.Errorf("failed to increment wins: %w", err)
	}

	return nil
}

func (that *dbResult) GetByMatchID(ctx context.Context, matchID uint32) (*entity.MatchResult, error) {
	response, err := that.client.Get(ctx, resultKey(matchID)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match result: %w", err)
	}

	var result entity.MatchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
	}

	return &result, nil
}

// WinsByPlayer - returns the number of archived wins for a display name;
// unknown names have zero wins.
func (that *dbResult) WinsByPlayer(ctx context.Context, name string) (int64, error) {
	response, err := that.client.Get(ctx, winsKey(name)).Result()

	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get wins: %w", err)
	}

	wins, err := strconv.ParseInt(response, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse wins: %w", err)
	}

	return wins, nil
}

func resultKey(matchID uint32) string {
	return "result:" + strconv.FormatUint(uint64(matchID), 10)
}

func winsKey(name string) string {
	return "wins:" + name
}
