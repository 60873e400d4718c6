// Package chembl provides a client for the ChEMBL bioactivity REST API.
package chembl

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/scimcp/internal/upstream"
)

const (
	// BaseURL is the ChEMBL web services base URL.
	BaseURL = "https://www.ebi.ac.uk/chembl/api/data"

	// ServiceName identifies ChEMBL in errors and metrics.
	ServiceName = "chembl"

	// DefaultLimit is the default page size for list endpoints.
	DefaultLimit = 25

	// MaxLimit is the largest page ChEMBL serves.
	MaxLimit = 1000

	// DefaultSimilarity is the default similarity threshold (percent).
	DefaultSimilarity = 70
)

// IDPattern matches a normalized ChEMBL identifier.
var IDPattern = regexp.MustCompile(`^CHEMBL\d+$`)

// NormalizeID upper-cases and trims a ChEMBL identifier.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Client is a ChEMBL API client.
type Client struct {
	http *upstream.Client
}

// NewClient wraps an upstream client configured for ChEMBL.
func NewClient(hc *upstream.Client) *Client {
	return &Client{http: hc}
}

// GetMolecule fetches a molecule record.
func (c *Client) GetMolecule(ctx context.Context, chemblID string) (json.RawMessage, error) {
	return c.http.Get(ctx, "/molecule/"+url.PathEscape(chemblID)+".json", nil)
}

// GetMoleculeRecord fetches a molecule and decodes the fields the heuristics need.
func (c *Client) GetMoleculeRecord(ctx context.Context, chemblID string) (*Molecule, error) {
	var m Molecule
	if err := c.http.GetJSON(ctx, "/molecule/"+url.PathEscape(chemblID)+".json", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SearchMolecules runs a free-text molecule search.
func (c *Client) SearchMolecules(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.http.Get(ctx, "/molecule/search.json", searchParams(query, limit))
}

// GetTarget fetches a target record.
func (c *Client) GetTarget(ctx context.Context, chemblID string) (json.RawMessage, error) {
	return c.http.Get(ctx, "/target/"+url.PathEscape(chemblID)+".json", nil)
}

// SearchTargets runs a free-text target search.
func (c *Client) SearchTargets(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.http.Get(ctx, "/target/search.json", searchParams(query, limit))
}

// GetAssay fetches an assay record.
func (c *Client) GetAssay(ctx context.Context, chemblID string) (json.RawMessage, error) {
	return c.http.Get(ctx, "/assay/"+url.PathEscape(chemblID)+".json", nil)
}

// SearchAssays runs a free-text assay search.
func (c *Client) SearchAssays(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	return c.http.Get(ctx, "/assay/search.json", searchParams(query, limit))
}

// GetActivity fetches one activity record by numeric ID.
func (c *Client) GetActivity(ctx context.Context, activityID int) (json.RawMessage, error) {
	return c.http.Get(ctx, "/activity/"+strconv.Itoa(activityID)+".json", nil)
}

// ActivityFilter selects activity records. Empty fields are not sent.
type ActivityFilter struct {
	MoleculeID   string
	TargetID     string
	StandardType string // e.g. IC50, Ki
	Limit        int
}

// SearchActivities lists activity records matching the filter.
func (c *Client) SearchActivities(ctx context.Context, f ActivityFilter) (json.RawMessage, error) {
	params := url.Values{}
	if f.MoleculeID != "" {
		params.Set("molecule_chembl_id", f.MoleculeID)
	}
	if f.TargetID != "" {
		params.Set("target_chembl_id", f.TargetID)
	}
	if f.StandardType != "" {
		params.Set("standard_type", f.StandardType)
	}
	params.Set("limit", strconv.Itoa(limit(f.Limit)))
	return c.http.Get(ctx, "/activity.json", params)
}

// DrugIndications lists the drug indications of a molecule.
func (c *Client) DrugIndications(ctx context.Context, chemblID string, n int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("molecule_chembl_id", chemblID)
	params.Set("limit", strconv.Itoa(limit(n)))

	var page struct {
		DrugIndications []json.RawMessage `json:"drug_indications"`
	}
	if err := c.http.GetJSON(ctx, "/drug_indication.json", params, &page); err != nil {
		return nil, err
	}
	return page.DrugIndications, nil
}

// Mechanisms lists the mechanisms of action of a molecule.
func (c *Client) Mechanisms(ctx context.Context, chemblID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("molecule_chembl_id", chemblID)
	return c.http.Get(ctx, "/mechanism.json", params)
}

// SimilaritySearch finds molecules similar to a SMILES string.
// threshold is a Tanimoto percentage between 40 and 100.
func (c *Client) SimilaritySearch(ctx context.Context, smiles string, threshold, n int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit(n)))
	path := "/similarity/" + url.PathEscape(smiles) + "/" + strconv.Itoa(threshold) + ".json"
	return c.http.Get(ctx, path, params)
}

// SubstructureSearch finds molecules containing a SMILES substructure.
func (c *Client) SubstructureSearch(ctx context.Context, smiles string, n int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit(n)))
	return c.http.Get(ctx, "/substructure/"+url.PathEscape(smiles)+".json", params)
}

func searchParams(query string, n int) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit(n)))
	return params
}

func limit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
