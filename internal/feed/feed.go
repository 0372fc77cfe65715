// Package feed fetches and parses FxBlue-style RSS feeds. A feed document is
// an ordered sequence of mixed entry kinds: account-summary entries and
// position entries, distinguished only by which fields they carry.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Entry is one feed item, exposed as a mapping of field name to raw value.
// Keys are the lowercased local element names ("ticket", "balance",
// "opentime", ...). Absence of a field is a valid state the caller must
// handle, not an error.
type Entry map[string]string

// Has reports whether the entry carries the named field.
func (e Entry) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Get returns the raw value for the named field, or "" when absent.
func (e Entry) Get(key string) string {
	return e[key]
}

// UnmarshalXML flattens an <item> element's children into the map form.
// Element order inside one item does not matter; document order of items is
// preserved by the enclosing slice.
func (e *Entry) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	entry := Entry{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			entry[strings.ToLower(t.Name.Local)] = strings.TrimSpace(value)
		case xml.EndElement:
			*e = entry
			return nil
		}
	}
}

type document struct {
	Items []Entry `xml:"channel>item"`
}

// Parse decodes an RSS document into its ordered entry sequence.
func Parse(r io.Reader) ([]Entry, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return doc.Items, nil
}

// Fetcher retrieves feed documents over HTTP. A shared rate limiter caps the
// fetch rate across all concurrent workers.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher with the given rate cap and per-request timeout.
// The burst follows the rate, so a sub-1 rps cap never allows a request burst.
func NewFetcher(requestsPerSecond float64, timeout time.Duration) *Fetcher {
	burst := int(math.Ceil(requestsPerSecond))
	if burst < 1 {
		burst = 1
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Fetch downloads and parses the feed at url. It performs no retries; retry
// policy belongs to the caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d", url, resp.StatusCode)
	}

	return Parse(resp.Body)
}
