package chembl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matsen/scimcp/internal/admet"
	"github.com/matsen/scimcp/internal/upstream"
)

const aspirinJSON = `{
  "molecule_chembl_id": "CHEMBL25",
  "pref_name": "ASPIRIN",
  "molecule_type": "Small molecule",
  "max_phase": "4.0",
  "molecule_properties": {
    "full_mwt": "180.16",
    "alogp": "1.31",
    "hbd": 1,
    "hba": 3,
    "psa": "63.60",
    "rtb": 2,
    "num_ro5_violations": 0
  },
  "molecule_structures": {
    "canonical_smiles": "CC(=O)Oc1ccccc1C(=O)O",
    "standard_inchi_key": "BSYNRYMUTXBXSQ-UHFFFAOYSA-N"
  }
}`

type captured struct {
	path  string
	query url.Values
}

func newTestClient(t *testing.T, body string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.query = r.URL.Query()
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(upstream.NewClient(ServiceName, srv.URL)), got
}

func TestGetMoleculeRecord(t *testing.T) {
	c, got := newTestClient(t, aspirinJSON)

	m, err := c.GetMoleculeRecord(context.Background(), "CHEMBL25")
	if err != nil {
		t.Fatalf("GetMoleculeRecord() error = %v", err)
	}
	if got.path != "/molecule/CHEMBL25.json" {
		t.Errorf("path = %q", got.path)
	}
	if m.ChEMBLID != "CHEMBL25" || m.PrefName != "ASPIRIN" {
		t.Errorf("molecule = %+v", m)
	}
	if m.Smiles() != "CC(=O)Oc1ccccc1C(=O)O" {
		t.Errorf("Smiles() = %q", m.Smiles())
	}

	ps, err := m.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() error = %v", err)
	}
	if ps.MolecularWeight != 180.16 || ps.LogP != 1.31 || ps.HBD != 1 || ps.HBA != 3 || ps.PSA != 63.6 || ps.RotatableBonds != 2 {
		t.Errorf("Descriptors() = %+v", ps)
	}
	if len(ps.Missing) != 0 {
		t.Errorf("Missing = %v, want none", ps.Missing)
	}
}

func TestSummarize(t *testing.T) {
	c, _ := newTestClient(t, aspirinJSON)
	m, err := c.GetMoleculeRecord(context.Background(), "CHEMBL25")
	if err != nil {
		t.Fatalf("GetMoleculeRecord() error = %v", err)
	}

	s, err := m.Summarize()
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.DrugLikeness.Overall != admet.LabelExcellent {
		t.Errorf("Overall = %q, want Excellent", s.DrugLikeness.Overall)
	}
	if s.MaxPhase != "4.0" {
		t.Errorf("MaxPhase = %v", s.MaxPhase)
	}
}

func TestDescriptors_NoProperties(t *testing.T) {
	m := &Molecule{ChEMBLID: "CHEMBL1201580"}
	ps, err := m.Descriptors()
	if err != nil {
		t.Fatalf("Descriptors() error = %v", err)
	}
	if len(ps.Missing) != 7 {
		t.Errorf("Missing = %v, want all descriptors", ps.Missing)
	}
	if m.Smiles() != "" {
		t.Errorf("Smiles() = %q, want empty", m.Smiles())
	}
}

func TestDescriptors_BadValue(t *testing.T) {
	m := &Molecule{ChEMBLID: "CHEMBL1", Properties: map[string]any{"alogp": "n/a"}}
	if _, err := m.Descriptors(); err == nil {
		t.Error("Descriptors() expected error for non-numeric alogp")
	}
}

func TestEndpoints(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		call      func(*Client) error
		wantPath  string
		wantQuery map[string]string
	}{
		{
			name:      "search molecules",
			call:      func(c *Client) error { _, err := c.SearchMolecules(ctx, "aspirin", 5); return err },
			wantPath:  "/molecule/search.json",
			wantQuery: map[string]string{"q": "aspirin", "limit": "5"},
		},
		{
			name:     "get target",
			call:     func(c *Client) error { _, err := c.GetTarget(ctx, "CHEMBL203"); return err },
			wantPath: "/target/CHEMBL203.json",
		},
		{
			name:      "search targets default limit",
			call:      func(c *Client) error { _, err := c.SearchTargets(ctx, "EGFR", 0); return err },
			wantPath:  "/target/search.json",
			wantQuery: map[string]string{"q": "EGFR", "limit": "25"},
		},
		{
			name:     "get assay",
			call:     func(c *Client) error { _, err := c.GetAssay(ctx, "CHEMBL1217643"); return err },
			wantPath: "/assay/CHEMBL1217643.json",
		},
		{
			name:      "search assays capped limit",
			call:      func(c *Client) error { _, err := c.SearchAssays(ctx, "kinase", 5000); return err },
			wantPath:  "/assay/search.json",
			wantQuery: map[string]string{"q": "kinase", "limit": "1000"},
		},
		{
			name:     "get activity",
			call:     func(c *Client) error { _, err := c.GetActivity(ctx, 31863); return err },
			wantPath: "/activity/31863.json",
		},
		{
			name: "search activities",
			call: func(c *Client) error {
				_, err := c.SearchActivities(ctx, ActivityFilter{TargetID: "CHEMBL203", StandardType: "IC50", Limit: 10})
				return err
			},
			wantPath:  "/activity.json",
			wantQuery: map[string]string{"target_chembl_id": "CHEMBL203", "standard_type": "IC50", "limit": "10"},
		},
		{
			name:      "mechanisms",
			call:      func(c *Client) error { _, err := c.Mechanisms(ctx, "CHEMBL25"); return err },
			wantPath:  "/mechanism.json",
			wantQuery: map[string]string{"molecule_chembl_id": "CHEMBL25"},
		},
		{
			name:      "similarity",
			call:      func(c *Client) error { _, err := c.SimilaritySearch(ctx, "CC(=O)Oc1ccccc1C(=O)O", 80, 10); return err },
			wantPath:  "/similarity/CC(=O)Oc1ccccc1C(=O)O/80.json",
			wantQuery: map[string]string{"limit": "10"},
		},
		{
			name:     "substructure",
			call:     func(c *Client) error { _, err := c.SubstructureSearch(ctx, "c1ccccc1", 0); return err },
			wantPath: "/substructure/c1ccccc1.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newTestClient(t, `{"page_meta":{}}`)
			if err := tt.call(c); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if got.path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.path, tt.wantPath)
			}
			for k, v := range tt.wantQuery {
				if got.query.Get(k) != v {
					t.Errorf("query[%s] = %q, want %q", k, got.query.Get(k), v)
				}
			}
		})
	}
}

func TestSearchActivities_OmitsEmptyFilters(t *testing.T) {
	c, got := newTestClient(t, `{"activities":[]}`)
	if _, err := c.SearchActivities(context.Background(), ActivityFilter{MoleculeID: "CHEMBL25"}); err != nil {
		t.Fatalf("SearchActivities() error = %v", err)
	}
	if got.query.Has("target_chembl_id") || got.query.Has("standard_type") {
		t.Errorf("unexpected filters in %v", got.query)
	}
}

func TestDrugIndications(t *testing.T) {
	c, got := newTestClient(t, `{"drug_indications":[{"mesh_heading":"Pain"},{"mesh_heading":"Fever"}],"page_meta":{}}`)

	items, err := c.DrugIndications(context.Background(), "CHEMBL25", 0)
	if err != nil {
		t.Fatalf("DrugIndications() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
	if got.path != "/drug_indication.json" || got.query.Get("molecule_chembl_id") != "CHEMBL25" {
		t.Errorf("request = %s?%v", got.path, got.query)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"CHEMBL25", "CHEMBL25", true},
		{" chembl25 ", "CHEMBL25", true},
		{"ChEMBL1201580", "CHEMBL1201580", true},
		{"CHEMBL", "CHEMBL", false},
		{"aspirin", "ASPIRIN", false},
		{"CHEMBL25X", "CHEMBL25X", false},
	}
	for _, tt := range tests {
		got := NormalizeID(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if IDPattern.MatchString(got) != tt.valid {
			t.Errorf("IDPattern.MatchString(%q) = %v, want %v", got, !tt.valid, tt.valid)
		}
	}
}
