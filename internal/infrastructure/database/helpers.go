package database

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Close closes the pool. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Msg("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("[DATABASE] Connection pool closed successfully")

	return nil
}

// PoolStats is a snapshot of the connection pool, reported by /health
type PoolStats struct {
	TotalConns         int32         `json:"totalConns"`
	IdleConns          int32         `json:"idleConns"`
	AcquiredConns      int32         `json:"acquiredConns"`
	MaxConns           int32         `json:"maxConns"`
	AcquireCount       int64         `json:"acquireCount"`
	AvgAcquireDuration time.Duration `json:"avgAcquireDurationNs"`
}

// Stats returns nil before Connect or after Close
func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return nil
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:         raw.TotalConns(),
		IdleConns:          raw.IdleConns(),
		AcquiredConns:      raw.AcquiredConns(),
		MaxConns:           raw.MaxConns(),
		AcquireCount:       raw.AcquireCount(),
		AvgAcquireDuration: calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}
