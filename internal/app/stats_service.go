package app

import (
	"context"

	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/ports/secondary"
)

// StatsServiceImpl reports aggregates over the outcome store
type StatsServiceImpl struct {
	outcomes secondary.OutcomeRepository
}

func NewStatsService(outcomes secondary.OutcomeRepository) *StatsServiceImpl {
	return &StatsServiceImpl{outcomes: outcomes}
}

func (s *StatsServiceImpl) Summary(ctx context.Context) (*primary.StoreSummary, error) {
	sum, err := s.outcomes.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &primary.StoreSummary{
		Total:        sum.Total,
		Succeeded:    sum.Succeeded,
		Failed:       sum.Failed,
		SavedKB:      sum.SavedKB,
		ByReason:     sum.ByReason,
		FirstRecord:  sum.FirstRecord,
		LatestRecord: sum.LatestRecord,
	}, nil
}

var _ primary.StatsService = (*StatsServiceImpl)(nil)
