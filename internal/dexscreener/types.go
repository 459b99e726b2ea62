// internal/dexscreener/types.go
package dexscreener

// Response is the top-level Dexscreener API payload
type Response struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Pair holds one pair entry from the API
type Pair struct {
	ChainID       string     `json:"chainId"`
	DexID         string     `json:"dexId"`
	URL           string     `json:"url"`
	PairAddress   string     `json:"pairAddress"`
	BaseToken     Token      `json:"baseToken"`
	QuoteToken    Token      `json:"quoteToken"`
	PriceUsd      string     `json:"priceUsd"`
	Liquidity     *Liquidity `json:"liquidity"`
	Volume        *Volume    `json:"volume"`
	Volume24hUsd  *float64   `json:"volume24hUsd"`
	PairCreatedAt int64      `json:"pairCreatedAt"`
}

// Token describes one side of a pair
type Token struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}

// Liquidity and Volume are optional in the API; pointers let an
// absent object coerce to zero instead of failing resolution. Some
// payload variants carry volume as a flat volume24hUsd field instead
// of the nested object.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

type Volume struct {
	H24 *float64 `json:"h24"`
	H6  *float64 `json:"h6"`
	H1  *float64 `json:"h1"`
}

// Quote is a freshly resolved USD price with display metadata.
// Quotes are produced on every resolution call and never cached.
type Quote struct {
	PriceUsd     float64
	Name         string
	LiquidityUsd float64
	VolumeH24Usd float64
}
