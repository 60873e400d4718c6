// Package tools defines every operation exposed to the assistant host: the
// Crossref and ChEMBL passthroughs, the property heuristics, and the resource
// URIs that map onto them.
package tools

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/chembl"
	"github.com/matsen/scimcp/internal/crossref"
	"github.com/matsen/scimcp/internal/ops"
)

// Operation groups.
const (
	GroupCrossref = "crossref"
	GroupChEMBL   = "chembl"
	GroupLocal    = "local"
)

// Deps are the collaborators handlers need.
type Deps struct {
	Crossref *crossref.Client
	ChEMBL   *chembl.Client
	Logger   *zap.Logger
}

// NewRegistry builds a registry holding every operation.
func NewRegistry(d Deps) *ops.Registry {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := ops.NewRegistry()
	r.MustRegister(crossrefOperations(d.Crossref)...)
	r.MustRegister(chemblOperations(d.ChEMBL, d.Logger)...)
	r.MustRegister(propertyOperations()...)
	return r
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	issnPattern  = regexp.MustCompile(`^\d{4}-?\d{3}[\dXx]$`)
)

func limitField(def, max int, desc string) args.Field {
	return args.Field{
		Name:        "limit",
		Kind:        args.Integer,
		Description: desc,
		Default:     def,
		Bounds:      &args.Bounds{Min: 1, Max: float64(max)},
	}
}

func mailtoField() args.Field {
	return args.Field{
		Name:        "mailto",
		Kind:        args.String,
		Description: "Contact email sent to Crossref for polite-pool access",
		Pattern:     emailPattern,
		PatternHint: "be an email address",
	}
}

func doiField(name string) args.Field {
	return args.Field{
		Name:        name,
		Kind:        args.String,
		Description: "DOI, with or without https://doi.org/ prefix (e.g. 10.1038/nature14539)",
		Required:    true,
		Normalize:   crossref.NormalizeDOI,
		Pattern:     crossref.DOIPattern,
		PatternHint: "be a DOI like 10.1038/nature14539",
	}
}

func chemblIDField(name, desc string, required bool) args.Field {
	return args.Field{
		Name:        name,
		Kind:        args.String,
		Description: desc,
		Required:    required,
		Normalize:   chembl.NormalizeID,
		Pattern:     chembl.IDPattern,
		PatternHint: "be a ChEMBL ID like CHEMBL25",
	}
}

// chemblIDListField checks IDs per item, so one malformed ID becomes an
// error record in the batch instead of rejecting the call.
func chemblIDListField(min, max int) args.Field {
	return args.Field{
		Name:        "chembl_ids",
		Kind:        args.StringList,
		Description: "ChEMBL molecule IDs",
		Required:    true,
		Bounds:      &args.Bounds{Min: float64(min), Max: float64(max)},
		Normalize:   chembl.NormalizeID,
		Pattern:     chembl.IDPattern,
		PatternHint: "be a ChEMBL ID like CHEMBL25",
		ItemName:    "chembl_id",
	}
}
