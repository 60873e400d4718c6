package tools

import (
	"context"
	"fmt"

	"github.com/matsen/scimcp/internal/admet"
	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/ops"
)

// MaxBatchProperties bounds batch_evaluate_properties.
const MaxBatchProperties = 100

const descriptorHelp = "Descriptors: molecular_weight, logp, hbd, hba, psa, rotatable_bonds " +
	"(ChEMBL names such as full_mwt and alogp are also accepted). Absent values count as zero."

// propertyOperations never touch the network.
func propertyOperations() []ops.Operation {
	return []ops.Operation{
		{
			Name:        "evaluate_properties",
			Title:       "Evaluate properties",
			Description: "Run the ADMET and drug-likeness heuristics over caller-supplied descriptors. No network access. " + descriptorHelp,
			Action:      "evaluating properties",
			Group:       GroupLocal,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "properties", Kind: args.Object, Description: "Descriptor values keyed by name", Required: true},
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				ps, err := admet.ParseDescriptors(v.Object("properties"))
				if err != nil {
					return nil, args.Invalid("properties", "%v", err)
				}
				return admet.Evaluate(ps), nil
			},
		},
		{
			Name:        "batch_evaluate_properties",
			Title:       "Batch evaluate properties",
			Description: "Evaluate several descriptor sets. Each item gets its own ok or error record, in input order. " + descriptorHelp,
			Action:      "evaluating properties",
			Group:       GroupLocal,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "items", Kind: args.AnyList, Description: "Descriptor objects", Required: true, Bounds: &args.Bounds{Min: 1, Max: MaxBatchProperties}},
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return ops.RunBatch(ctx, v.List("items"), evaluateItem), nil
			},
		},
	}
}

func evaluateItem(_ context.Context, item any) (any, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("item must be an object, got %T", item)
	}
	ps, err := admet.ParseDescriptors(m)
	if err != nil {
		return nil, err
	}
	return admet.Evaluate(ps), nil
}
