package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/ianaindex"
)

type Parser struct {
	source *Source
}

func NewParser(source *Source) *Parser {
	return &Parser{
		source: source,
	}
}

// ratesDocument is the raw shape of the feed. All fields are optional;
// numeric item fields stay strings so recovery rules can apply per field.
type ratesDocument struct {
	Date        string     `xml:"date"`
	Title       string     `xml:"title"`
	Generator   string     `xml:"generator"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	Copyright   string     `xml:"copyright"`
	Info        string     `xml:"info"`
	Items       []rateItem `xml:"item"`
}

type rateItem struct {
	FullName    string `xml:"fullname"`
	Title       string `xml:"title"`       // currency code
	Description string `xml:"description"` // rate value
	Quant       string `xml:"quant"`
	Index       string `xml:"index"`
	Change      string `xml:"change"`
}

// Run decodes one feed document. An ill-formed document is an error;
// defects inside individual items are recovered by dropping the item.
// The feed-reported date wins over the requested one when present.
func (p *Parser) Run(data []byte, requestedDate string) (*ParseResult, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charsetReader

	var doc ratesDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	result := &ParseResult{
		Metadata: Metadata{
			Date:        cmp.Or(strings.TrimSpace(doc.Date), requestedDate),
			Title:       strings.TrimSpace(doc.Title),
			Generator:   strings.TrimSpace(doc.Generator),
			Link:        strings.TrimSpace(doc.Link),
			Description: strings.TrimSpace(doc.Description),
			Copyright:   strings.TrimSpace(doc.Copyright),
			RetrievedAt: time.Now().UTC(),
		},
	}

	if p.source.IsNotPublished(doc.Info) {
		result.NotPublished = true
		return result, nil
	}

	rates := make([]Rate, 0, len(doc.Items))
	for _, item := range doc.Items {
		rate, ok := p.normalizeItem(item)
		if !ok {
			continue
		}
		rates = append(rates, rate)
	}
	result.Rates = rates

	return result, nil
}

// normalizeItem converts one feed item into a Rate. Items with a missing
// required text field or an unparsable (or negative) rate are dropped
// entirely; quant, index and change recover to their defaults.
func (p *Parser) normalizeItem(item rateItem) (Rate, bool) {
	fullName := strings.TrimSpace(item.FullName)
	code := strings.TrimSpace(item.Title)
	if fullName == "" || code == "" {
		slog.Debug("Skipping item with missing required fields", "fullname", fullName, "code", code)
		return Rate{}, false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(item.Description), 64)
	if err != nil || value < 0 {
		slog.Debug("Skipping item with unparsable rate", "code", code, "rate", item.Description)
		return Rate{}, false
	}

	normalized := Rate{
		FullName: fullName,
		Code:     code,
		Rate:     value,
		Quant:    1,
		Index:    "NONE",
	}

	if quant, err := strconv.Atoi(strings.TrimSpace(item.Quant)); err == nil && quant > 0 {
		normalized.Quant = quant
	}
	if index := strings.TrimSpace(item.Index); index != "" {
		normalized.Index = index
	}
	if change, err := strconv.ParseFloat(strings.TrimSpace(item.Change), 64); err == nil {
		normalized.Change = change
	}

	return normalized, true
}

// charsetReader decodes documents that declare a non-UTF-8 encoding in
// the XML header (the feed has served windows-1251 in the past).
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
