// internal/discovery/apify.go
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultApifyBaseURL = "https://api.apify.com"
	runPollInterval     = time.Second
)

// ApifyProvider runs the Dexscreener scraper actor on the Apify
// platform. An actor call is a batch job: submit the run, poll until
// it finishes, then fetch the run's dataset items.
type ApifyProvider struct {
	baseURL      string
	token        string
	actor        string
	chain        string
	client       *http.Client
	runDeadline  time.Duration
	pollInterval time.Duration
	logger       *zap.Logger
}

func NewApifyProvider(token, actor, chain string, timeout, runDeadline time.Duration, logger *zap.Logger) *ApifyProvider {
	return &ApifyProvider{
		baseURL: defaultApifyBaseURL,
		token:   token,
		actor:   actor,
		chain:   chain,
		client: &http.Client{
			Timeout: timeout,
		},
		runDeadline:  runDeadline,
		pollInterval: runPollInterval,
		logger:       logger.Named("apify"),
	}
}

// actorInput mirrors the scraper actor's expected input
type actorInput struct {
	Chain     string  `json:"chain"`
	PageCount int     `json:"pageCount"`
	Limit     int     `json:"limit"`
	SortRank  string  `json:"sortRank"`
	SortOrder string  `json:"sortOrder"`
	MaxAge    float64 `json:"maxAge"`
}

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runData `json:"data"`
}

// pairItem is the wire shape of one scraped dataset item
type pairItem struct {
	PairAddress string `json:"pairAddress"`
	DexID       string `json:"dexId"`
	URL         string `json:"url"`
	BaseToken   *struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"baseToken"`
	QuoteToken *struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"quoteToken"`
	Liquidity *struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume *struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PairAge float64 `json:"pairAge"`
}

// FetchNewest submits one scraper run sorted by pair age ascending and
// returns its results, youngest pairs first. The whole batch job runs
// under one deadline; a run stuck in RUNNING fails the fetch instead
// of blocking the caller's polling loop.
func (p *ApifyProvider) FetchNewest(ctx context.Context, maxAgeHours float64, limit int) ([]PairRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.runDeadline)
	defer cancel()

	input := actorInput{
		Chain:     p.chain,
		PageCount: 1,
		Limit:     limit,
		SortRank:  "pairAge",
		SortOrder: "asc",
		MaxAge:    maxAgeHours,
	}

	run, err := p.startRun(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("start actor run: %w", err)
	}

	run, err = p.waitForRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("wait for actor run %s: %w", run.ID, err)
	}

	items, err := p.fetchItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", run.DefaultDatasetID, err)
	}

	records := make([]PairRecord, 0, len(items))
	for _, item := range items {
		records = append(records, recordFromItem(item))
	}
	return records, nil
}

func (p *ApifyProvider) startRun(ctx context.Context, input actorInput) (runData, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return runData{}, err
	}

	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", p.baseURL, p.actor, p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return runData{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var envelope runEnvelope
	if err := p.do(req, &envelope); err != nil {
		return runData{}, err
	}

	p.logger.Debug("actor run started",
		zap.String("run_id", envelope.Data.ID),
		zap.String("status", envelope.Data.Status))
	return envelope.Data, nil
}

func (p *ApifyProvider) waitForRun(ctx context.Context, run runData) (runData, error) {
	for {
		switch run.Status {
		case "SUCCEEDED":
			return run, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return run, fmt.Errorf("actor run finished with status %s", run.Status)
		}

		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-time.After(p.pollInterval):
		}

		url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", p.baseURL, run.ID, p.token)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return run, err
		}

		var envelope runEnvelope
		if err := p.do(req, &envelope); err != nil {
			return run, err
		}
		run = envelope.Data
	}
}

func (p *ApifyProvider) fetchItems(ctx context.Context, datasetID string) ([]pairItem, error) {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json", p.baseURL, datasetID, p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var items []pairItem
	if err := p.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *ApifyProvider) do(req *http.Request, out interface{}) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func recordFromItem(item pairItem) PairRecord {
	rec := PairRecord{
		PairAddress: item.PairAddress,
		BaseSymbol:  "UNKNOWN",
		QuoteSymbol: "UNKNOWN",
		DexID:       item.DexID,
		URL:         item.URL,
		AgeHours:    item.PairAge,
	}
	if item.BaseToken != nil {
		if item.BaseToken.Symbol != "" {
			rec.BaseSymbol = item.BaseToken.Symbol
		} else if item.BaseToken.Name != "" {
			rec.BaseSymbol = item.BaseToken.Name
		}
	}
	if item.QuoteToken != nil {
		if item.QuoteToken.Symbol != "" {
			rec.QuoteSymbol = item.QuoteToken.Symbol
		} else if item.QuoteToken.Name != "" {
			rec.QuoteSymbol = item.QuoteToken.Name
		}
	}
	if item.Liquidity != nil {
		rec.LiquidityUsd = item.Liquidity.USD
	}
	if item.Volume != nil {
		rec.VolumeH24Usd = item.Volume.H24
	}
	return rec
}
