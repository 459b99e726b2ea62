// internal/discovery/types.go
package discovery

import "context"

// PairRecord is one ranked entry from the discovery provider.
// It is an immutable snapshot, not owned beyond one evaluation.
type PairRecord struct {
	PairAddress  string
	BaseSymbol   string
	QuoteSymbol  string
	DexID        string
	URL          string
	LiquidityUsd float64
	VolumeH24Usd float64
	AgeHours     float64
}

// Name returns the "base/quote" display name
func (r *PairRecord) Name() string {
	return r.BaseSymbol + "/" + r.QuoteSymbol
}

// Provider is the black-box batch discovery collaborator. It returns
// pairs within the age ceiling, youngest first, provider order kept.
type Provider interface {
	FetchNewest(ctx context.Context, maxAgeHours float64, limit int) ([]PairRecord, error)
}
