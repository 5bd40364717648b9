package feed

import (
	"time"
)

// Feed processing types

type Metadata struct {
	Date        string
	Title       string
	Generator   string
	Link        string
	Description string
	Copyright   string
	RetrievedAt time.Time
}

// Rate is one currency entry of the feed: the price of Quant units of the
// currency, plus the exchange-office index flag and the day-over-day change.
type Rate struct {
	FullName string
	Code     string
	Rate     float64
	Quant    int
	Index    string
	Change   float64
}

// ParseResult is the outcome of parsing one feed document. NotPublished is
// set when the feed reports that no rates exist yet for the requested date;
// that is a valid empty result, not an error.
type ParseResult struct {
	Metadata     Metadata
	Rates        []Rate
	NotPublished bool
}
