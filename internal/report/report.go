// Package report forwards run failures to the error-reporting channel.
// Reporting is fire-and-forget: a failing reporter never breaks the run.
package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel failed runs are published to.
const Channel = "EVENT_RUN_FAILED"

// RunContext carries the metadata attached to every report.
type RunContext struct {
	RunID     string    `json:"runId"`
	Trigger   string    `json:"trigger"` // "cron", "manual" or "startup"
	StartedAt time.Time `json:"startedAt"`
}

// Reporter receives run-level failures.
type Reporter interface {
	Report(ctx context.Context, err error, run RunContext)
}

// RedisReporter publishes failure events to a Redis channel so downstream
// consumers (alerting, dashboards) can subscribe.
type RedisReporter struct {
	rdb     *redis.Client
	channel string
}

// NewRedisReporter returns a reporter publishing to the standard channel.
func NewRedisReporter(rdb *redis.Client) *RedisReporter {
	return &RedisReporter{rdb: rdb, channel: Channel}
}

// Report publishes the failure. Publish errors are logged and swallowed.
func (r *RedisReporter) Report(ctx context.Context, runErr error, run RunContext) {
	payload, err := json.Marshal(struct {
		Type string `json:"type"`
		RunContext
		Error      string    `json:"error"`
		ReportedAt time.Time `json:"reportedAt"`
	}{
		Type:       Channel,
		RunContext: run,
		Error:      runErr.Error(),
		ReportedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("marshal failure report", "err", err)
		return
	}

	if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
		slog.Warn("publish failure report", "channel", r.channel, "err", err)
	}
}
