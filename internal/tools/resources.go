package tools

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matsen/scimcp/internal/ops"
)

// ErrInvalidRequest is returned for resource URIs that cannot be served.
var ErrInvalidRequest = errors.New("invalid request")

// Resource URI schemes.
const (
	SchemeChEMBL   = "chembl"
	SchemeCrossref = "crossref"
)

// ResourceURI is a parsed scheme://category/identifier.
type ResourceURI struct {
	Scheme     string
	Category   string
	Identifier string
}

func (u ResourceURI) String() string {
	return u.Scheme + "://" + u.Category + "/" + u.Identifier
}

// ParseResourceURI splits uri into its parts. The identifier is everything
// after the category, so DOIs keep their slash.
func ParseResourceURI(uri string) (ResourceURI, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(uri), "://")
	if !ok || scheme == "" {
		return ResourceURI{}, fmt.Errorf("%w: malformed resource URI %q", ErrInvalidRequest, uri)
	}
	category, id, ok := strings.Cut(rest, "/")
	if !ok || category == "" || id == "" {
		return ResourceURI{}, fmt.Errorf("%w: resource URI %q must be %s://category/identifier", ErrInvalidRequest, uri, scheme)
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	return ResourceURI{Scheme: strings.ToLower(scheme), Category: strings.ToLower(category), Identifier: id}, nil
}

// resourceRoute maps a category onto an operation and the argument that
// receives the identifier.
type resourceRoute struct {
	op    string
	param string
}

var resourceRoutes = map[string]map[string]resourceRoute{
	SchemeChEMBL: {
		"compound": {"get_compound", "chembl_id"},
		"target":   {"get_target", "chembl_id"},
		"assay":    {"get_assay", "chembl_id"},
		"activity": {"get_activity", "activity_id"},
		"search":   {"search_compounds", "query"},
	},
	SchemeCrossref: {
		"work":    {"get_work_metadata", "doi"},
		"member":  {"get_member", "member_id"},
		"funder":  {"get_funder", "funder_id"},
		"journal": {"get_journal", "issn"},
		"type":    {"get_work_type", "type_id"},
	},
}

// ResourceTemplate describes one URI family for listing.
type ResourceTemplate struct {
	URI         string
	Name        string
	Description string
}

// ResourceTemplates lists the served URI families, one per scheme.
func ResourceTemplates() []ResourceTemplate {
	return []ResourceTemplate{
		{
			URI:         SchemeChEMBL + "://{category}/{+identifier}",
			Name:        "ChEMBL record",
			Description: "ChEMBL data by category: compound, target or assay (ChEMBL ID), activity (numeric ID), search (query text).",
		},
		{
			URI:         SchemeCrossref + "://{category}/{+identifier}",
			Name:        "Crossref record",
			Description: "Crossref data by category: work (DOI), member (numeric ID), funder, journal (ISSN), type.",
		},
	}
}

// Resources reads resource URIs through the operations registry.
type Resources struct {
	reg *ops.Registry
}

// NewResources creates a resource reader over reg.
func NewResources(reg *ops.Registry) *Resources {
	return &Resources{reg: reg}
}

// Read parses uri and runs the matching operation. Malformed URIs, unknown
// schemes or categories, and identifiers the operation rejects all yield
// ErrInvalidRequest.
func (r *Resources) Read(ctx context.Context, uri string) (any, error) {
	name, raw, err := r.resolve(uri)
	if err != nil {
		return nil, err
	}
	return r.reg.Call(ctx, name, raw)
}

// Check reports the error Read would return before any upstream call, or nil
// if uri is servable.
func (r *Resources) Check(uri string) error {
	_, _, err := r.resolve(uri)
	return err
}

func (r *Resources) resolve(uri string) (string, map[string]any, error) {
	u, err := ParseResourceURI(uri)
	if err != nil {
		return "", nil, err
	}
	routes, ok := resourceRoutes[u.Scheme]
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown resource scheme %q", ErrInvalidRequest, u.Scheme)
	}
	route, ok := routes[u.Category]
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown %s resource category %q", ErrInvalidRequest, u.Scheme, u.Category)
	}
	op, ok := r.reg.Lookup(route.op)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ops.ErrUnknownOperation, route.op)
	}

	raw := map[string]any{route.param: u.Identifier}
	if _, err := op.Schema.Validate(raw); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return route.op, raw, nil
}
