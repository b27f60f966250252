// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jpreyes/paperradarai-bot/internal/filters"
	"github.com/jpreyes/paperradarai-bot/internal/httputil"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// crossrefHardFilters are phrases that disqualify a work outright.
var crossrefHardFilters = []string{"retraction notice", "erratum"}

// CrossrefSource queries the Crossref REST API for recently published
// works matching the configured search terms (R1.2).
type CrossrefSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *CrossrefSource) Name() string { return "crossref" }

// crossrefResponse is the works query envelope.
type crossrefResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	DOI            string     `json:"DOI"`
	Title          []string   `json:"title"`
	Subtitle       []string   `json:"subtitle"`
	Abstract       string     `json:"abstract"`
	URL            string     `json:"URL"`
	ContainerTitle []string   `json:"container-title"`
	Author         []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
	} `json:"author"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
	Created struct {
		DateTime string `json:"date-time"`
	} `json:"created"`
}

// Fetch runs one query per configured search term, newest first, and
// normalizes the works (R1.2, R2.2). Crossref rate-limits aggressively,
// so requests go through the shared retry helper.
func (s *CrossrefSource) Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.Document, error) {
	terms := cfg.SearchTerms
	if len(terms) == 0 {
		terms = DefaultSearchTerms()
	}
	maxResults := cfg.MaxCrossrefResults
	if maxResults <= 0 {
		maxResults = 50
	}

	var docs []types.Document
	var lastErr error
	succeeded := false

	for _, term := range terms {
		params := url.Values{
			"query": {term},
			"rows":  {strconv.Itoa(maxResults)},
			"sort":  {"published"},
			"order": {"desc"},
		}
		if cfg.CrossrefMailto != "" {
			params.Set("mailto", cfg.CrossrefMailto)
		}

		works, err := s.query(ctx, crossrefAPIBase+"?"+params.Encode(), cfg)
		if err != nil {
			lastErr = err
			continue
		}
		succeeded = true

		for _, w := range works {
			if doc, ok := normalizeCrossrefWork(w); ok {
				docs = append(docs, doc)
			}
		}
	}

	if !succeeded && lastErr != nil {
		return nil, fmt.Errorf("all Crossref queries failed: %w", lastErr)
	}
	return docs, nil
}

func (s *CrossrefSource) query(ctx context.Context, reqURL string, cfg types.FetchConfig) ([]crossrefWork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	userAgent := cfg.UserAgent
	if cfg.CrossrefMailto != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", cfg.UserAgent, cfg.CrossrefMailto)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}
	return cr.Message.Items, nil
}

// normalizeCrossrefWork converts a Crossref work into a Document, applying
// the language and hard filters (R2.2, R4.1).
func normalizeCrossrefWork(w crossrefWork) (types.Document, bool) {
	title := filters.SanitizeText(strings.Join(w.Title, " "))
	if title == "" {
		return types.Document{}, false
	}
	abstract := filters.SanitizeText(w.Abstract)
	if abstract == "" && len(w.Subtitle) > 0 {
		abstract = filters.SanitizeText(w.Subtitle[0])
	}

	blob := title + " " + abstract
	if !filters.EnglishOnly(blob) {
		return types.Document{}, false
	}
	lower := strings.ToLower(blob)
	for _, bad := range crossrefHardFilters {
		if strings.Contains(lower, bad) {
			return types.Document{}, false
		}
	}

	year := ""
	if len(w.Issued.DateParts) > 0 && len(w.Issued.DateParts[0]) > 0 {
		year = strconv.Itoa(w.Issued.DateParts[0][0])
	}
	if year == "" && w.Created.DateTime != "" {
		year = filters.YearFromDate(w.Created.DateTime)
	}

	doc := types.Document{
		ID:        w.DOI,
		Title:     title,
		Abstract:  abstract,
		URL:       w.URL,
		Published: w.Created.DateTime,
		Source:    "crossref",
		Year:      year,
	}
	if len(w.ContainerTitle) > 0 {
		doc.Venue = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			doc.Authors = append(doc.Authors, name)
		}
	}
	return doc, true
}
