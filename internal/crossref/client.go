// Package crossref provides a client for the Crossref REST API.
package crossref

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/scimcp/internal/upstream"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// ServiceName identifies Crossref in errors and metrics.
	ServiceName = "crossref"

	// DefaultRows is the default number of results for search endpoints.
	DefaultRows = 20

	// MaxRows is the largest page Crossref serves.
	MaxRows = 1000
)

// Client is a Crossref API client. The zero mailto sends anonymous requests.
type Client struct {
	http   *upstream.Client
	mailto string
}

// NewClient wraps an upstream client configured for Crossref.
func NewClient(hc *upstream.Client, mailto string) *Client {
	return &Client{http: hc, mailto: strings.TrimSpace(mailto)}
}

// WithMailto returns a copy of the client that identifies itself with mailto,
// or the client itself when mailto is empty.
func (c *Client) WithMailto(mailto string) *Client {
	mailto = strings.TrimSpace(mailto)
	if mailto == "" || mailto == c.mailto {
		return c
	}
	return &Client{http: c.http, mailto: mailto}
}

// Mailto returns the contact address sent with requests.
func (c *Client) Mailto() string {
	return c.mailto
}

// WorksQuery holds the parameters of a works search.
type WorksQuery struct {
	Query  string
	Rows   int
	Offset int
	Filter string // Crossref filter syntax, e.g. "from-pub-date:2020,type:journal-article"
	Sort   string
	Order  string
}

// SearchWorks searches for scholarly works.
func (c *Client) SearchWorks(ctx context.Context, q WorksQuery) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("rows", strconv.Itoa(rows(q.Rows)))
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	return c.get(ctx, "/works", params)
}

// GetWork fetches a work by DOI.
func (c *Client) GetWork(ctx context.Context, doi string) (json.RawMessage, error) {
	return c.get(ctx, "/works/"+EscapeDOI(doi), nil)
}

// GetAgency fetches the registration agency of a DOI.
func (c *Client) GetAgency(ctx context.Context, doi string) (json.RawMessage, error) {
	return c.get(ctx, "/works/"+EscapeDOI(doi)+"/agency", nil)
}

// SearchJournals searches journals. An empty query lists journals.
func (c *Client) SearchJournals(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.get(ctx, "/journals", searchParams(query, limit))
}

// GetJournal fetches a journal by ISSN.
func (c *Client) GetJournal(ctx context.Context, issn string) (json.RawMessage, error) {
	return c.get(ctx, "/journals/"+url.PathEscape(issn), nil)
}

// SearchFunders searches funders. An empty query lists funders.
func (c *Client) SearchFunders(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.get(ctx, "/funders", searchParams(query, limit))
}

// GetFunder fetches a funder by its Funder Registry ID.
func (c *Client) GetFunder(ctx context.Context, funderID string) (json.RawMessage, error) {
	return c.get(ctx, "/funders/"+url.PathEscape(funderID), nil)
}

// SearchMembers searches publishers and institutional members.
func (c *Client) SearchMembers(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.get(ctx, "/members", searchParams(query, limit))
}

// GetMember fetches a member by numeric ID.
func (c *Client) GetMember(ctx context.Context, memberID int) (json.RawMessage, error) {
	return c.get(ctx, "/members/"+strconv.Itoa(memberID), nil)
}

// ListTypes lists all work types.
func (c *Client) ListTypes(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/types", nil)
}

// GetType fetches one work type.
func (c *Client) GetType(ctx context.Context, typeID string) (json.RawMessage, error) {
	return c.get(ctx, "/types/"+url.PathEscape(typeID), nil)
}

// ListLicenses lists licenses seen on works, optionally filtered by query.
func (c *Client) ListLicenses(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.get(ctx, "/licenses", searchParams(query, limit))
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if c.mailto != "" {
		if params == nil {
			params = url.Values{}
		}
		params.Set("mailto", c.mailto)
	}
	return c.http.Get(ctx, path, params)
}

func searchParams(query string, limit int) url.Values {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	params.Set("rows", strconv.Itoa(rows(limit)))
	return params
}

func rows(n int) int {
	if n <= 0 {
		return DefaultRows
	}
	if n > MaxRows {
		return MaxRows
	}
	return n
}
