// Package history provides Redis-backed persistence for run summaries,
// so successive evaluation runs can be compared over time.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
)

// CategoryScores is the per-category slice of a run summary.
type CategoryScores struct {
	Accuracy float64 `json:"accuracy"`
	F1       float64 `json:"f1"`
}

// RunSummary is the compact record stored per evaluation run.
type RunSummary struct {
	Timestamp  time.Time                 `json:"timestamp"`
	Total      int                       `json:"total"`
	Errored    int                       `json:"errored"`
	Categories map[string]CategoryScores `json:"categories"`
}

// Summarize condenses an aggregate report into a run summary.
func Summarize(rep *evaluation.Report) RunSummary {
	summary := RunSummary{
		Timestamp:  rep.Timestamp,
		Total:      rep.Total,
		Errored:    rep.Errored,
		Categories: make(map[string]CategoryScores, len(rep.Results)),
	}
	for _, cat := range evaluation.Categories() {
		r := rep.Result(cat)
		summary.Categories[string(cat)] = CategoryScores{
			Accuracy: r.Scores.Accuracy,
			F1:       r.Scores.F1,
		}
	}
	return summary
}

// Store persists run summaries in a Redis sorted set keyed by run
// timestamp.
type Store struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewStore connects to Redis and verifies the connection. Entries older
// than ttl are pruned on every write.
func NewStore(url string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperrors.HistoryError("parsing redis URL", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.HistoryError("connecting to redis", err)
	}

	return &Store{
		client: client,
		key:    "safepost:eval:runs",
		ttl:    ttl,
	}, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Record appends one run summary and prunes entries beyond the TTL.
func (s *Store) Record(ctx context.Context, summary RunSummary) error {
	member, err := json.Marshal(summary)
	if err != nil {
		return apperrors.HistoryError("encoding run summary", err)
	}

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, s.key, redis.Z{
		Score:  float64(summary.Timestamp.Unix()),
		Member: string(member),
	})
	minScore := time.Now().Add(-s.ttl).Unix()
	pipe.ZRemRangeByScore(ctx, s.key, "-inf", fmt.Sprintf("%d", minScore))

	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.HistoryError("saving run summary", err)
	}
	return nil
}

// List returns run summaries recorded since the given time, oldest
// first.
func (s *Store) List(ctx context.Context, since time.Time) ([]RunSummary, error) {
	members, err := s.client.ZRangeByScore(ctx, s.key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", since.Unix()),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, apperrors.HistoryError("loading run history", err)
	}

	summaries := make([]RunSummary, 0, len(members))
	for _, m := range members {
		var summary RunSummary
		if err := json.Unmarshal([]byte(m), &summary); err != nil {
			return nil, apperrors.HistoryError("decoding run summary", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
