package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/matsen/scimcp/internal/admet"
	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/chembl"
	"github.com/matsen/scimcp/internal/ops"
)

// Batch bounds for compound lookups.
const (
	MaxBatchCompounds   = 50
	MinCompareCompounds = 2
	MaxCompareCompounds = 10
)

// DrugIndications is the get_drug_indications payload.
type DrugIndications struct {
	ChEMBLID    string `json:"molecule_chembl_id"`
	Count       int    `json:"count"`
	Indications []any  `json:"drug_indications"`
}

// Comparison is the compare_compounds payload.
type Comparison struct {
	Compounds []ops.ItemOutcome `json:"compounds"`
	// Ranking lists successfully fetched IDs from fewest to most Lipinski violations.
	Ranking []string `json:"ranking"`
}

func chemblOperations(c *chembl.Client, logger *zap.Logger) []ops.Operation {
	limit := limitField(chembl.DefaultLimit, chembl.MaxLimit, "Maximum number of results")
	query := args.Field{Name: "query", Kind: args.String, Description: "Search terms", Required: true}
	smiles := args.Field{Name: "smiles", Kind: args.String, Description: "SMILES string", Required: true}
	compoundID := chemblIDField("chembl_id", "ChEMBL molecule ID, e.g. CHEMBL25", true)
	batchIDs := chemblIDListField(1, MaxBatchCompounds)
	compareIDs := chemblIDListField(MinCompareCompounds, MaxCompareCompounds)

	return []ops.Operation{
		{
			Name:        "search_compounds",
			Title:       "Search compounds",
			Description: "Search ChEMBL molecules by name, synonym or other text.",
			Action:      "searching compounds",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{query, limit}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.SearchMolecules(ctx, v.String("query"), v.Int("limit"))
			},
		},
		{
			Name:        "get_compound",
			Title:       "Get compound",
			Description: "Fetch a ChEMBL molecule record by ChEMBL ID.",
			Action:      "fetching compound",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compoundID}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.GetMolecule(ctx, v.String("chembl_id"))
			},
		},
		{
			Name:        "search_targets",
			Title:       "Search targets",
			Description: "Search ChEMBL biological targets (proteins, cell lines, organisms).",
			Action:      "searching targets",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{query, limit}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.SearchTargets(ctx, v.String("query"), v.Int("limit"))
			},
		},
		{
			Name:        "get_target",
			Title:       "Get target",
			Description: "Fetch a ChEMBL target record by ChEMBL ID.",
			Action:      "fetching target",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{chemblIDField("chembl_id", "ChEMBL target ID, e.g. CHEMBL203", true)}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.GetTarget(ctx, v.String("chembl_id"))
			},
		},
		{
			Name:        "get_assay",
			Title:       "Get assay",
			Description: "Fetch a ChEMBL assay record by ChEMBL ID.",
			Action:      "fetching assay",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{chemblIDField("chembl_id", "ChEMBL assay ID", true)}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.GetAssay(ctx, v.String("chembl_id"))
			},
		},
		{
			Name:        "search_assays",
			Title:       "Search assays",
			Description: "Search ChEMBL assays by description.",
			Action:      "searching assays",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{query, limit}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.SearchAssays(ctx, v.String("query"), v.Int("limit"))
			},
		},
		{
			Name:        "get_activity",
			Title:       "Get activity",
			Description: "Fetch one bioactivity measurement by activity ID.",
			Action:      "fetching activity",
			Group:       GroupChEMBL,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "activity_id", Kind: args.Integer, Description: "ChEMBL activity ID", Required: true, Bounds: &args.Bounds{Min: 1, Max: 1e12}},
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.GetActivity(ctx, v.Int("activity_id"))
			},
		},
		{
			Name:        "search_activities",
			Title:       "Search activities",
			Description: "List bioactivity measurements for a molecule and/or target, optionally by measurement type (IC50, Ki, ...).",
			Action:      "searching activities",
			Group:       GroupChEMBL,
			Schema: args.Schema{
				Fields: []args.Field{
					chemblIDField("molecule_chembl_id", "ChEMBL molecule ID", false),
					chemblIDField("target_chembl_id", "ChEMBL target ID", false),
					{Name: "standard_type", Kind: args.String, Description: "Measurement type, e.g. IC50"},
					limit,
				},
				Check: func(v args.Values) error {
					if !v.Has("molecule_chembl_id") && !v.Has("target_chembl_id") {
						return args.Invalid("", "one of molecule_chembl_id or target_chembl_id is required")
					}
					return nil
				},
			},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.SearchActivities(ctx, chembl.ActivityFilter{
					MoleculeID:   v.String("molecule_chembl_id"),
					TargetID:     v.String("target_chembl_id"),
					StandardType: v.String("standard_type"),
					Limit:        v.Int("limit"),
				})
			},
		},
		{
			Name:        "get_drug_indications",
			Title:       "Get drug indications",
			Description: "List the therapeutic indications recorded for a molecule. Returns an empty list when none are available.",
			Action:      "fetching drug indications",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compoundID, limit}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				id := v.String("chembl_id")
				out := DrugIndications{ChEMBLID: id, Indications: []any{}}
				items, err := c.DrugIndications(ctx, id, v.Int("limit"))
				if err != nil {
					logger.Warn("drug indications unavailable", zap.String("chembl_id", id), zap.Error(err))
					return out, nil
				}
				for _, it := range items {
					out.Indications = append(out.Indications, it)
				}
				out.Count = len(out.Indications)
				return out, nil
			},
		},
		{
			Name:        "get_mechanisms",
			Title:       "Get mechanisms",
			Description: "List mechanisms of action recorded for a molecule.",
			Action:      "fetching mechanisms",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compoundID}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.Mechanisms(ctx, v.String("chembl_id"))
			},
		},
		{
			Name:        "similarity_search",
			Title:       "Similarity search",
			Description: "Find molecules structurally similar to a SMILES string above a Tanimoto similarity threshold.",
			Action:      "running similarity search",
			Group:       GroupChEMBL,
			Schema: args.Schema{Fields: []args.Field{
				smiles,
				{Name: "threshold", Kind: args.Integer, Description: "Minimum similarity percentage", Default: chembl.DefaultSimilarity, Bounds: &args.Bounds{Min: 40, Max: 100}},
				limit,
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.SimilaritySearch(ctx, v.String("smiles"), v.Int("threshold"), v.Int("limit"))
			},
		},
		{
			Name:        "substructure_search",
			Title:       "Substructure search",
			Description: "Find molecules containing a SMILES substructure.",
			Action:      "running substructure search",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{smiles, limit}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.SubstructureSearch(ctx, v.String("smiles"), v.Int("limit"))
			},
		},
		{
			Name:        "batch_compound_lookup",
			Title:       "Batch compound lookup",
			Description: "Fetch several molecules by ChEMBL ID. Each ID gets its own ok or error record, in input order.",
			Action:      "looking up compounds",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{batchIDs}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return ops.RunBatch(ctx, v.Strings("chembl_ids"), func(ctx context.Context, raw string) (any, error) {
					id, err := batchIDs.CheckItem(raw)
					if err != nil {
						return nil, err
					}
					return c.GetMolecule(ctx, id)
				}), nil
			},
		},
		{
			Name:        "compare_compounds",
			Title:       "Compare compounds",
			Description: "Compare drug-likeness of several molecules side by side.",
			Action:      "comparing compounds",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compareIDs}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				res := ops.RunBatch(ctx, v.Strings("chembl_ids"), func(ctx context.Context, raw string) (any, error) {
					id, err := compareIDs.CheckItem(raw)
					if err != nil {
						return nil, err
					}
					m, err := c.GetMoleculeRecord(ctx, id)
					if err != nil {
						return nil, err
					}
					return m.Summarize()
				})
				return compare(res), nil
			},
		},
		{
			Name:        "analyze_admet",
			Title:       "Analyze ADMET",
			Description: "Predict absorption, distribution, solubility and drug-likeness of a molecule from its ChEMBL descriptors.",
			Action:      "analyzing ADMET properties",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compoundID}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				m, ps, err := fetchDescriptors(ctx, c, v.String("chembl_id"))
				if err != nil {
					return nil, err
				}
				return CompoundReport{ChEMBLID: m.ChEMBLID, PrefName: m.PrefName, Report: admet.Evaluate(ps)}, nil
			},
		},
		{
			Name:        "assess_drug_likeness",
			Title:       "Assess drug-likeness",
			Description: "Apply Lipinski's Rule of Five and Veber's rule to a molecule.",
			Action:      "assessing drug-likeness",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compoundID}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				m, ps, err := fetchDescriptors(ctx, c, v.String("chembl_id"))
				if err != nil {
					return nil, err
				}
				return DrugLikenessReport{
					ChEMBLID:     m.ChEMBLID,
					PrefName:     m.PrefName,
					Properties:   ps,
					DrugLikeness: admet.AssessDrugLikeness(ps),
				}, nil
			},
		},
		{
			Name:        "predict_solubility",
			Title:       "Predict solubility",
			Description: "Estimate aqueous solubility and membrane permeability of a molecule from logP and polar surface area.",
			Action:      "predicting solubility",
			Group:       GroupChEMBL,
			Schema:      args.Schema{Fields: []args.Field{compoundID}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				m, ps, err := fetchDescriptors(ctx, c, v.String("chembl_id"))
				if err != nil {
					return nil, err
				}
				return SolubilityPrediction{ChEMBLID: m.ChEMBLID, PrefName: m.PrefName, SolubilityReport: admet.Solubility(ps)}, nil
			},
		},
	}
}

// CompoundReport is the analyze_admet payload.
type CompoundReport struct {
	ChEMBLID string `json:"molecule_chembl_id"`
	PrefName string `json:"pref_name,omitempty"`
	admet.Report
}

// DrugLikenessReport is the assess_drug_likeness payload.
type DrugLikenessReport struct {
	ChEMBLID     string             `json:"molecule_chembl_id"`
	PrefName     string             `json:"pref_name,omitempty"`
	Properties   admet.PropertySet  `json:"properties"`
	DrugLikeness admet.DrugLikeness `json:"drug_likeness"`
}

// SolubilityPrediction is the predict_solubility payload.
type SolubilityPrediction struct {
	ChEMBLID string `json:"molecule_chembl_id"`
	PrefName string `json:"pref_name,omitempty"`
	admet.SolubilityReport
}

func fetchDescriptors(ctx context.Context, c *chembl.Client, id string) (*chembl.Molecule, admet.PropertySet, error) {
	m, err := c.GetMoleculeRecord(ctx, id)
	if err != nil {
		return nil, admet.PropertySet{}, err
	}
	ps, err := m.Descriptors()
	if err != nil {
		return nil, admet.PropertySet{}, err
	}
	return m, ps, nil
}

// compare ranks the successful summaries by violation count, keeping input
// order among ties.
func compare(res ops.BatchResult) Comparison {
	out := Comparison{Compounds: res.Results, Ranking: []string{}}
	for violations := 0; violations <= 4; violations++ {
		for _, item := range res.Results {
			s, ok := item.Result.(chembl.Summary)
			if ok && s.DrugLikeness.LipinskiViolations == violations {
				out.Ranking = append(out.Ranking, s.ChEMBLID)
			}
		}
	}
	return out
}
