// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// --- mock source ---

type mockSource struct {
	name string
	docs []types.Document
	err  error
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(_ context.Context, _ types.FetchConfig) ([]types.Document, error) {
	return m.docs, m.err
}

func testFetchCfg() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "paperradar-test/0.1",
		},
		EnableArxiv:        true,
		EnableCrossref:     true,
		MaxArxivResults:    20,
		MaxCrossrefResults: 20,
		SearchTerms:        []string{"modal analysis"},
	}
}

// --- Merge ---

func TestMergeByIdentifier(t *testing.T) {
	docs := []types.Document{
		{ID: "2301.07041", Title: "Paper A", Source: "arxiv"},
		{ID: "2301.07041", Title: "Paper A (crossref copy)", Source: "crossref"},
		{ID: "10.1000/xyz", Title: "Paper B", Source: "crossref"},
	}
	merged, removed := Merge(docs)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	if merged[0].Source != "arxiv" {
		t.Errorf("first occurrence should win, got source %q", merged[0].Source)
	}
}

func TestMergeFallsBackToURLAndContentHash(t *testing.T) {
	docs := []types.Document{
		{URL: "https://example.org/p1", Title: "No identifier"},
		{URL: "https://example.org/p1", Title: "No identifier again"},
		{Title: "Only a title", Abstract: "shared abstract"},
		{Title: "Only a title", Abstract: "shared abstract"},
	}
	merged, removed := Merge(docs)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(merged) != 2 {
		t.Errorf("len(merged) = %d, want 2", len(merged))
	}
}

// --- FetchAll ---

func TestFetchAllCombinesSources(t *testing.T) {
	sources := []Source{
		&mockSource{name: "arxiv", docs: []types.Document{{ID: "a1", Title: "A"}}},
		&mockSource{name: "crossref", docs: []types.Document{{ID: "c1", Title: "C"}}},
	}

	var buf bytes.Buffer
	out, err := FetchAll(context.Background(), sources, testFetchCfg(), &buf)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(out.Documents) != 2 {
		t.Errorf("got %d documents, want 2", len(out.Documents))
	}
}

func TestFetchAllIsolatesFailingSource(t *testing.T) {
	sources := []Source{
		&mockSource{name: "arxiv", err: fmt.Errorf("connection refused")},
		&mockSource{name: "crossref", docs: []types.Document{{ID: "c1", Title: "C"}}},
	}

	var buf bytes.Buffer
	out, err := FetchAll(context.Background(), sources, testFetchCfg(), &buf)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(out.Documents) != 1 {
		t.Errorf("got %d documents, want 1", len(out.Documents))
	}
	if len(out.SourceErrors) != 1 || !strings.Contains(out.SourceErrors[0], "arxiv") {
		t.Errorf("SourceErrors = %v, want one arxiv error", out.SourceErrors)
	}
	if !strings.Contains(buf.String(), "warning: source arxiv failed") {
		t.Errorf("missing warning in output: %q", buf.String())
	}
}

func TestFetchAllNoSources(t *testing.T) {
	var buf bytes.Buffer
	if _, err := FetchAll(context.Background(), nil, testFetchCfg(), &buf); err == nil {
		t.Fatal("expected error with no sources")
	}
}

// --- arXiv connector ---

const arxivSample = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Operational modal analysis of a cable-stayed bridge</title>
    <summary>We present the modal analysis of a bridge using measured data.</summary>
    <published>2023-01-17T14:00:00Z</published>
    <author><name>A. Researcher</name></author>
    <link rel="alternate" href="https://arxiv.org/abs/2301.07041v1"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2301.99999v1</id>
    <title>Call for Papers: special issue on the dynamics of structures</title>
    <summary>Submissions are invited for the special issue.</summary>
    <published>2023-01-18T09:00:00Z</published>
    <author><name>E. Ditor</name></author>
  </entry>
</feed>`

func TestArxivSourceFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_query"); !strings.HasPrefix(got, "all:") {
			t.Errorf("search_query = %q, want all: prefix", got)
		}
		fmt.Fprint(w, arxivSample)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	src := &ArxivSource{Client: ts.Client()}
	docs, err := src.Fetch(context.Background(), testFetchCfg())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// The call-for-papers entry is filtered out.
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	d := docs[0]
	if d.ID != "2301.07041v1" {
		t.Errorf("ID = %q, want 2301.07041v1", d.ID)
	}
	if d.Source != "arxiv" || d.Year != "2023" {
		t.Errorf("source/year = %q/%q, want arxiv/2023", d.Source, d.Year)
	}
	if len(d.Authors) != 1 || d.Authors[0] != "A. Researcher" {
		t.Errorf("authors = %v", d.Authors)
	}
}

func TestArxivSourceHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	src := &ArxivSource{Client: ts.Client()}
	if _, err := src.Fetch(context.Background(), testFetchCfg()); err == nil {
		t.Fatal("expected error when every query fails")
	}
}

// --- Crossref connector ---

const crossrefSample = `{
  "message": {
    "items": [
      {
        "DOI": "10.1000/bridge1",
        "title": ["Damage detection of the bridge deck"],
        "abstract": "A study of the damage detection with field data.",
        "URL": "https://doi.org/10.1000/bridge1",
        "container-title": ["Journal of Bridge Engineering"],
        "author": [{"given": "Ada", "family": "Lovelace"}],
        "issued": {"date-parts": [[2023, 4, 1]]},
        "created": {"date-time": "2023-04-01T00:00:00Z"}
      },
      {
        "DOI": "10.1000/retract1",
        "title": ["Retraction Notice to the analysis of decks"],
        "abstract": "This article has been retracted.",
        "URL": "https://doi.org/10.1000/retract1",
        "issued": {"date-parts": [[2023]]}
      }
    ]
  }
}`

func TestCrossrefSourceFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sort"); got != "published" {
			t.Errorf("sort = %q, want published", got)
		}
		fmt.Fprint(w, crossrefSample)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	src := &CrossrefSource{Client: ts.Client()}
	docs, err := src.Fetch(context.Background(), testFetchCfg())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// The retraction notice is filtered out.
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	d := docs[0]
	if d.ID != "10.1000/bridge1" {
		t.Errorf("ID = %q", d.ID)
	}
	if d.Venue != "Journal of Bridge Engineering" {
		t.Errorf("Venue = %q", d.Venue)
	}
	if d.Year != "2023" {
		t.Errorf("Year = %q, want 2023", d.Year)
	}
	if len(d.Authors) != 1 || d.Authors[0] != "Ada Lovelace" {
		t.Errorf("authors = %v", d.Authors)
	}
}

func TestCrossrefMailtoInUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `{"message":{"items":[]}}`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	cfg := testFetchCfg()
	cfg.CrossrefMailto = "radar@example.org"

	src := &CrossrefSource{Client: ts.Client()}
	if _, err := src.Fetch(context.Background(), cfg); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(gotUA, "mailto:radar@example.org") {
		t.Errorf("User-Agent = %q, want mailto contact", gotUA)
	}
}
