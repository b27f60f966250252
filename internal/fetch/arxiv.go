// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jpreyes/paperradarai-bot/internal/filters"
	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivHardFilters are phrases that disqualify an entry outright.
var arxivHardFilters = []string{"call for papers"}

// ArxivSource queries the arXiv Atom API for recent submissions matching
// the configured search terms (R1.1).
type ArxivSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// arxivFeed is the Atom response envelope.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// Fetch runs one query per configured search term, sorted by submission
// date, and normalizes the entries (R1.1, R2.1).
func (s *ArxivSource) Fetch(ctx context.Context, cfg types.FetchConfig) ([]types.Document, error) {
	terms := cfg.SearchTerms
	if len(terms) == 0 {
		terms = DefaultSearchTerms()
	}
	maxResults := cfg.MaxArxivResults
	if maxResults <= 0 {
		maxResults = 100
	}

	var docs []types.Document
	var lastErr error
	succeeded := false

	for _, term := range terms {
		reqURL := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
			arxivAPIBase, url.QueryEscape(term), maxResults)

		feed, err := s.query(ctx, reqURL, cfg)
		if err != nil {
			// One failing term must not sink the others.
			lastErr = err
			continue
		}
		succeeded = true

		for _, entry := range feed.Entries {
			if doc, ok := normalizeArxivEntry(entry); ok {
				docs = append(docs, doc)
			}
		}
	}

	if !succeeded && lastErr != nil {
		return nil, fmt.Errorf("all arXiv queries failed: %w", lastErr)
	}
	return docs, nil
}

func (s *ArxivSource) query(ctx context.Context, reqURL string, cfg types.FetchConfig) (arxivFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return arxivFeed{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return arxivFeed{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return arxivFeed{}, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return arxivFeed{}, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed, nil
}

// normalizeArxivEntry converts an Atom entry into a Document, applying the
// language and hard filters (R2.1, R4.1).
func normalizeArxivEntry(entry arxivEntry) (types.Document, bool) {
	title := filters.SanitizeText(entry.Title)
	abstract := filters.SanitizeText(entry.Summary)
	if title == "" {
		return types.Document{}, false
	}

	blob := title + " " + abstract
	if !filters.EnglishOnly(blob) {
		return types.Document{}, false
	}
	lower := strings.ToLower(blob)
	for _, bad := range arxivHardFilters {
		if strings.Contains(lower, bad) {
			return types.Document{}, false
		}
	}

	link := entry.ID
	for _, l := range entry.Links {
		if l.Rel == "alternate" && l.Href != "" {
			link = l.Href
			break
		}
	}

	doc := types.Document{
		ID:        extractArxivID(entry.ID),
		Title:     title,
		Abstract:  abstract,
		URL:       link,
		Published: entry.Published,
		Source:    "arxiv",
		Venue:     "arXiv",
		Year:      filters.YearFromDate(entry.Published),
	}
	for _, a := range entry.Authors {
		doc.Authors = append(doc.Authors, strings.TrimSpace(a.Name))
	}
	return doc, true
}

// extractArxivID pulls the bare arXiv ID (e.g. "2301.07041v2") out of the
// entry ID URL.
func extractArxivID(idURL string) string {
	if i := strings.LastIndex(idURL, "/abs/"); i >= 0 {
		return idURL[i+len("/abs/"):]
	}
	return idURL
}
