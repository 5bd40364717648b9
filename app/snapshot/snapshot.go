package snapshot

import (
	"time"

	"github.com/aidosmk/kzrates/app/feed"
)

// Snapshot is the persisted unit: feed metadata plus the rate set in feed
// order. It represents the latest successfully published rates.
type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Rates    []Rate   `json:"rates"`
}

type Metadata struct {
	Date        string    `json:"date"`
	Title       *string   `json:"title"`
	Generator   *string   `json:"generator"`
	Link        *string   `json:"link"`
	Description *string   `json:"description"`
	Copyright   *string   `json:"copyright"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

type Rate struct {
	FullName string  `json:"fullname"`
	Code     string  `json:"code"`
	Rate     float64 `json:"rate"`
	Quant    int     `json:"quant"`
	Index    string  `json:"index"`
	Change   float64 `json:"change"`
}

// ShouldPublish reports whether a freshly parsed result may overwrite the
// previous snapshot. An empty rate set never does: the prior snapshot is
// strictly more useful to downstream consumers than an empty one.
func ShouldPublish(rates []feed.Rate) bool {
	return len(rates) > 0
}

// New builds a Snapshot from parsed feed data, keeping feed order.
func New(meta feed.Metadata, rates []feed.Rate) *Snapshot {
	snap := &Snapshot{
		Metadata: Metadata{
			Date:        meta.Date,
			Title:       nullable(meta.Title),
			Generator:   nullable(meta.Generator),
			Link:        nullable(meta.Link),
			Description: nullable(meta.Description),
			Copyright:   nullable(meta.Copyright),
			RetrievedAt: meta.RetrievedAt,
		},
		Rates: make([]Rate, 0, len(rates)),
	}

	for _, r := range rates {
		snap.Rates = append(snap.Rates, Rate{
			FullName: r.FullName,
			Code:     r.Code,
			Rate:     r.Rate,
			Quant:    r.Quant,
			Index:    r.Index,
			Change:   r.Change,
		})
	}

	return snap
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
