package service

import (
	"gatebot/internal/domain"

	"go.uber.org/zap"
)

// UserStats counts snapshot records by membership status
type UserStats map[domain.MembershipStatus]int

// Total returns the number of records counted
func (s UserStats) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// StatsRecorder receives user counts, e.g. a Prometheus gauge
type StatsRecorder interface {
	SetUsers(status string, n int)
}

// StatsService periodically summarizes the oracle snapshot
type StatsService struct {
	oracle   *Oracle
	recorder StatsRecorder
	logger   *zap.Logger
}

// NewStatsService creates a new stats service. recorder may be nil.
func NewStatsService(oracle *Oracle, recorder StatsRecorder, logger *zap.Logger) *StatsService {
	return &StatsService{
		oracle:   oracle,
		recorder: recorder,
		logger:   logger,
	}
}

// Collect counts the current snapshot and publishes it
func (s *StatsService) Collect() UserStats {
	stats := UserStats{
		domain.StatusStarted: 0,
		domain.StatusRevoked: 0,
		domain.StatusExpired: 0,
	}
	for _, u := range s.oracle.Snapshot() {
		stats[s.oracle.StatusOf(u).Status]++
	}

	if s.recorder != nil {
		for status, n := range stats {
			s.recorder.SetUsers(string(status), n)
		}
	}

	s.logger.Debug("User stats collected",
		zap.Int("total", stats.Total()),
		zap.Int("started", stats[domain.StatusStarted]),
		zap.Int("revoked", stats[domain.StatusRevoked]),
		zap.Int("expired", stats[domain.StatusExpired]),
	)
	return stats
}
