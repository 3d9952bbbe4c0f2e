package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hck84-jenggot-gaming/GP-ToeFastToeSerious/internal/entity"
)

var ErrScoreNotFound = errors.New("score record not found")

const leaderboardKey = "leaderboard:wins"

// ScoreRepository keeps win counters in a redis sorted set, so increments are
// atomic on the store side and the leaderboard is a range query.
type ScoreRepository interface {
	FindOrCreate(ctx context.Context, name string) (*entity.Score, error)
	Increment(ctx context.Context, name string) (*entity.Score, error)
	TopPlayers(ctx context.Context, limit int) ([]entity.Score, error)
	GetByName(ctx context.Context, name string) (*entity.Score, error)
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) FindOrCreate(ctx context.Context, name string) (*entity.Score, error) {
	err := that.client.ZAddNX(ctx, leaderboardKey, redis.Z{Score: 0, Member: name}).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to create score record: %w", err)
	}

	return that.GetByName(ctx, name)
}

func (that *dbScore) Increment(ctx context.Context, name string) (*entity.Score, error) {
	_, err := that.client.ZScore(ctx, leaderboardKey, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrScoreNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to check score record: %w", err)
	}

	wins, err := that.client.ZIncrBy(ctx, leaderboardKey, 1, name).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to increment wins: %w", err)
	}

	return &entity.Score{Username: name, TotalWins: int(wins)}, nil
}

func (that *dbScore) TopPlayers(ctx context.Context, limit int) ([]entity.Score, error) {
	members, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get top players: %w", err)
	}

	scores := make([]entity.Score, 0, len(members))
	for _, member := range members {
		name, ok := member.Member.(string)
		if !ok {
			continue
		}

		scores = append(scores, entity.Score{Username: name, TotalWins: int(member.Score)})
	}

	return scores, nil
}

func (that *dbScore) GetByName(ctx context.Context, name string) (*entity.Score, error) {
	wins, err := that.client.ZScore(ctx, leaderboardKey, name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrScoreNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get score by name: %w", err)
	}

	return &entity.Score{Username: name, TotalWins: int(wins)}, nil
}
