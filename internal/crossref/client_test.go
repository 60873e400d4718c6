package crossref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matsen/scimcp/internal/upstream"
)

type capturedRequest struct {
	path  string
	query url.Values
}

func newTestClient(t *testing.T, body string, mailto string) (*Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(upstream.NewClient(ServiceName, srv.URL), mailto), captured
}

func TestSearchWorks(t *testing.T) {
	c, got := newTestClient(t, `{"status":"ok","message":{"items":[]}}`, "")

	raw, err := c.SearchWorks(context.Background(), WorksQuery{
		Query:  "machine learning",
		Rows:   5,
		Filter: "type:journal-article",
		Sort:   "published",
		Order:  "desc",
	})
	if err != nil {
		t.Fatalf("SearchWorks() error = %v", err)
	}
	if string(raw) != `{"status":"ok","message":{"items":[]}}` {
		t.Errorf("SearchWorks() body = %s", raw)
	}
	if got.path != "/works" {
		t.Errorf("path = %q, want /works", got.path)
	}
	want := map[string]string{
		"query":  "machine learning",
		"rows":   "5",
		"filter": "type:journal-article",
		"sort":   "published",
		"order":  "desc",
	}
	for k, v := range want {
		if got.query.Get(k) != v {
			t.Errorf("query[%s] = %q, want %q", k, got.query.Get(k), v)
		}
	}
	if got.query.Has("mailto") {
		t.Error("mailto should not be sent when unset")
	}
	if got.query.Has("offset") {
		t.Error("offset should not be sent when zero")
	}
}

func TestGetWork_PathKeepsSlash(t *testing.T) {
	c, got := newTestClient(t, `{"status":"ok"}`, "")

	if _, err := c.GetWork(context.Background(), "10.1038/nature14539"); err != nil {
		t.Fatalf("GetWork() error = %v", err)
	}
	if got.path != "/works/10.1038/nature14539" {
		t.Errorf("path = %q", got.path)
	}
}

func TestGetAgency(t *testing.T) {
	c, got := newTestClient(t, `{"status":"ok"}`, "")

	if _, err := c.GetAgency(context.Background(), "10.1038/nature14539"); err != nil {
		t.Fatalf("GetAgency() error = %v", err)
	}
	if got.path != "/works/10.1038/nature14539/agency" {
		t.Errorf("path = %q", got.path)
	}
}

func TestMailto(t *testing.T) {
	c, got := newTestClient(t, `{"status":"ok"}`, "lab@example.org")

	if _, err := c.ListTypes(context.Background()); err != nil {
		t.Fatalf("ListTypes() error = %v", err)
	}
	if got.query.Get("mailto") != "lab@example.org" {
		t.Errorf("mailto = %q, want lab@example.org", got.query.Get("mailto"))
	}

	other := c.WithMailto("me@example.org")
	if other == c {
		t.Fatal("WithMailto() should return a copy for a different address")
	}
	if _, err := other.GetType(context.Background(), "journal-article"); err != nil {
		t.Fatalf("GetType() error = %v", err)
	}
	if got.query.Get("mailto") != "me@example.org" {
		t.Errorf("mailto = %q, want me@example.org", got.query.Get("mailto"))
	}
	if got.path != "/types/journal-article" {
		t.Errorf("path = %q", got.path)
	}
	if c.Mailto() != "lab@example.org" {
		t.Errorf("original client mailto changed to %q", c.Mailto())
	}
	if c.WithMailto("  ") != c {
		t.Error("WithMailto(blank) should return the same client")
	}
}

func TestSearchEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Client) error
		wantPath string
		wantRows string
		wantQ    string
	}{
		{
			name:     "journals",
			call:     func(c *Client) error { _, err := c.SearchJournals(context.Background(), "nature", 3); return err },
			wantPath: "/journals",
			wantRows: "3",
			wantQ:    "nature",
		},
		{
			name:     "funders default rows",
			call:     func(c *Client) error { _, err := c.SearchFunders(context.Background(), "nih", 0); return err },
			wantPath: "/funders",
			wantRows: "20",
			wantQ:    "nih",
		},
		{
			name:     "members capped rows",
			call:     func(c *Client) error { _, err := c.SearchMembers(context.Background(), "", 5000); return err },
			wantPath: "/members",
			wantRows: "1000",
		},
		{
			name:     "licenses",
			call:     func(c *Client) error { _, err := c.ListLicenses(context.Background(), "creativecommons", 10); return err },
			wantPath: "/licenses",
			wantRows: "10",
			wantQ:    "creativecommons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newTestClient(t, `{"status":"ok"}`, "")
			if err := tt.call(c); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			if got.query.Get("rows") != tt.wantRows {
				t.Errorf("rows = %q, want %q", got.query.Get("rows"), tt.wantRows)
			}
			if got.query.Get("query") != tt.wantQ {
				t.Errorf("query = %q, want %q", got.query.Get("query"), tt.wantQ)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Client) error
		wantPath string
	}{
		{"member", func(c *Client) error { _, err := c.GetMember(context.Background(), 98); return err }, "/members/98"},
		{"funder", func(c *Client) error { _, err := c.GetFunder(context.Background(), "100000002"); return err }, "/funders/100000002"},
		{"journal", func(c *Client) error { _, err := c.GetJournal(context.Background(), "0028-0836"); return err }, "/journals/0028-0836"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newTestClient(t, `{"status":"ok"}`, "")
			if err := tt.call(c); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
		})
	}
}

func TestGetWork_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Resource not found.", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(upstream.NewClient(ServiceName, srv.URL), "")
	_, err := c.GetWork(context.Background(), "10.9999/missing")
	if !upstream.IsNotFound(err) {
		t.Errorf("GetWork() error = %v, want not found", err)
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1038/nature14539", "10.1038/nature14539"},
		{"  10.1038/nature14539 ", "10.1038/nature14539"},
		{"https://doi.org/10.1038/nature14539", "10.1038/nature14539"},
		{"HTTPS://DOI.ORG/10.1038/Nature14539", "10.1038/Nature14539"},
		{"http://dx.doi.org/10.1093/sysbio/syy032", "10.1093/sysbio/syy032"},
		{"doi:10.1093/sysbio/syy032", "10.1093/sysbio/syy032"},
		{"DOI: 10.1093/sysbio/syy032", "10.1093/sysbio/syy032"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.input); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDOIPattern(t *testing.T) {
	valid := []string{"10.1038/nature14539", "10.1002/(SICI)1097-4636", "10.123456789/x"}
	invalid := []string{"", "nature14539", "10.12/abc", "10.1038/", "11.1038/abc", "10.1038/a b"}

	for _, s := range valid {
		if !DOIPattern.MatchString(s) {
			t.Errorf("DOIPattern should match %q", s)
		}
	}
	for _, s := range invalid {
		if DOIPattern.MatchString(s) {
			t.Errorf("DOIPattern should not match %q", s)
		}
	}
}

func TestEscapeDOI(t *testing.T) {
	if got := EscapeDOI("10.1000/a b?c"); got != "10.1000/a%20b%3Fc" {
		t.Errorf("EscapeDOI() = %q", got)
	}
}
