package trending

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/debuglog"
)

const (
	rankingKey = "marquee:trending"
	termPrefix = "marquee:trending:term:"
)

// RedisCounter keeps counts in a sorted set shared between clients.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(ctx context.Context, addr, password string, db int) (*RedisCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	debuglog.Infof("connected to Redis at %s", addr)
	return &RedisCounter{rdb: client}, nil
}

func (c *RedisCounter) Close() error {
	return c.rdb.Close()
}

func (c *RedisCounter) Record(ctx context.Context, term string, movie catalog.Movie) error {
	key := Normalize(term)
	if key == "" {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, rankingKey, 1, key)
		pipe.HSet(ctx, termPrefix+key,
			"movie_id", movie.ID,
			"title", movie.Title,
			"poster_path", movie.PosterPath,
		)
		return nil
	})
	return err
}

func (c *RedisCounter) Top(ctx context.Context, n int) ([]Entry, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}
	ranked, err := c.rdb.ZRevRangeWithScores(ctx, rankingKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ranked))
	_, err = c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, z := range ranked {
			cmds[i] = pipe.HGetAll(ctx, termPrefix+fmt.Sprint(z.Member))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(ranked))
	for i, z := range ranked {
		meta := cmds[i].Val()
		id, _ := strconv.ParseInt(meta["movie_id"], 10, 64)
		entries = append(entries, Entry{
			Term:       fmt.Sprint(z.Member),
			Count:      int64(z.Score),
			MovieID:    id,
			Title:      meta["title"],
			PosterPath: meta["poster_path"],
		})
	}
	return rank(entries, n), nil
}

// Reset removes every recorded search.
func (c *RedisCounter) Reset(ctx context.Context) error {
	terms, err := c.rdb.ZRange(ctx, rankingKey, 0, -1).Result()
	if err != nil {
		return err
	}
	keys := []string{rankingKey}
	for _, t := range terms {
		keys = append(keys, termPrefix+t)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
