package config

import (
	"os"
	"strconv"
	"time"
)

// Lifecycle constants. All overridable via environment so deployments can
// tune sweep cadence without a rebuild.
var (
	// RetentionWindow is how long a trashed article stays restorable
	// before the retention sweeper permanently erases it.
	RetentionWindow time.Duration

	// RetentionSweepInterval is the cadence of the retention sweeper.
	RetentionSweepInterval time.Duration

	// PublishSweepInterval is the cadence of the scheduled publisher.
	// It bounds the maximum lateness of an auto-publish.
	PublishSweepInterval time.Duration

	// SweepOperationTimeout caps each per-article operation inside a sweep.
	SweepOperationTimeout time.Duration

	// FreePlanArticleLimit is the article cap for authors without the
	// unlimited-articles capability.
	FreePlanArticleLimit int
)

func init() {
	RetentionWindow = durationEnv("RETENTION_WINDOW", 30*24*time.Hour)
	RetentionSweepInterval = durationEnv("RETENTION_SWEEP_INTERVAL", 5*time.Minute)
	PublishSweepInterval = durationEnv("PUBLISH_SWEEP_INTERVAL", time.Minute)
	SweepOperationTimeout = durationEnv("SWEEP_OPERATION_TIMEOUT", 10*time.Second)
	FreePlanArticleLimit = intEnv("FREE_PLAN_ARTICLE_LIMIT", 10)
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
