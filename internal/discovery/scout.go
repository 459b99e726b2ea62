// internal/discovery/scout.go
package discovery

import (
	"context"

	"go.uber.org/zap"
)

// Scout queries the discovery provider for new pairs and filters them
// through the seen-pair registry.
type Scout struct {
	provider    Provider
	registry    *Registry
	maxAgeHours float64
	logger      *zap.Logger
}

func NewScout(provider Provider, registry *Registry, maxAgeHours float64, logger *zap.Logger) *Scout {
	return &Scout{
		provider:    provider,
		registry:    registry,
		maxAgeHours: maxAgeHours,
		logger:      logger.Named("scout"),
	}
}

// PollNewest asks the provider for the single youngest pair within the
// age ceiling. It returns nil when the provider has nothing or the
// pair has already been seen.
//
// The address is recorded as seen at discovery time, not at trade-open
// time: if a downstream step fails, this pair is never retried.
func (s *Scout) PollNewest(ctx context.Context) (*PairRecord, error) {
	records, err := s.provider.FetchNewest(ctx, s.maxAgeHours, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		s.logger.Debug("no pairs returned from discovery this round")
		return nil, nil
	}

	rec := records[0]
	if rec.PairAddress == "" {
		return nil, nil
	}
	if s.registry.Has(rec.PairAddress) {
		return nil, nil
	}
	s.registry.Add(rec.PairAddress)

	return &rec, nil
}

// PollMany returns every not-yet-seen pair from one discovery query,
// marking each as seen so it is reported exactly once per process.
// Used by the report-only watcher mode; it never warms up.
func (s *Scout) PollMany(ctx context.Context, limit int) ([]PairRecord, error) {
	records, err := s.provider.FetchNewest(ctx, s.maxAgeHours, limit)
	if err != nil {
		return nil, err
	}

	var fresh []PairRecord
	for _, rec := range records {
		if rec.PairAddress == "" {
			continue
		}
		if s.registry.Has(rec.PairAddress) {
			continue
		}
		s.registry.Add(rec.PairAddress)
		fresh = append(fresh, rec)
	}
	return fresh, nil
}

// Warmup seeds the registry from one discovery query so pairs already
// listed at startup are not traded. Returns how many were marked.
func (s *Scout) Warmup(ctx context.Context, limit int) (int, error) {
	records, err := s.provider.FetchNewest(ctx, s.maxAgeHours, limit)
	if err != nil {
		return 0, err
	}
	return s.registry.Warmup(records), nil
}
