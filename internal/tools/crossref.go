package tools

import (
	"context"

	"github.com/matsen/scimcp/internal/args"
	"github.com/matsen/scimcp/internal/crossref"
	"github.com/matsen/scimcp/internal/ops"
)

// MaxBatchWorks bounds batch_get_works.
const MaxBatchWorks = 50

func crossrefOperations(c *crossref.Client) []ops.Operation {
	rowsField := limitField(crossref.DefaultRows, crossref.MaxRows, "Maximum number of results")
	optionalQuery := args.Field{Name: "query", Kind: args.String, Description: "Search terms; omit to list"}
	batchDOIs := args.Field{
		Name:        "dois",
		Kind:        args.StringList,
		Description: "DOIs to fetch",
		Required:    true,
		Bounds:      &args.Bounds{Min: 1, Max: MaxBatchWorks},
		Normalize:   crossref.NormalizeDOI,
		Pattern:     crossref.DOIPattern,
		PatternHint: "be a DOI like 10.1038/nature14539",
		ItemName:    "doi",
	}

	return []ops.Operation{
		{
			Name:        "search_works_by_query",
			Title:       "Search works",
			Description: "Search Crossref for scholarly works (articles, books, datasets) matching a free-text query.",
			Action:      "searching works",
			Group:       GroupCrossref,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "query", Kind: args.String, Description: "Search terms", Required: true},
				rowsField,
				{Name: "offset", Kind: args.Integer, Description: "Number of results to skip", Bounds: &args.Bounds{Min: 0, Max: 10000}},
				{Name: "filter", Kind: args.String, Description: "Crossref filter, e.g. from-pub-date:2020,type:journal-article"},
				{Name: "sort", Kind: args.String, Description: "Sort field", Enum: []string{
					"relevance", "score", "published", "issued", "updated", "deposited", "indexed", "is-referenced-by-count", "references-count",
				}},
				{Name: "order", Kind: args.String, Description: "Sort order", Enum: []string{"asc", "desc"}},
				mailtoField(),
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).SearchWorks(ctx, crossref.WorksQuery{
					Query:  v.String("query"),
					Rows:   v.Int("limit"),
					Offset: v.Int("offset"),
					Filter: v.String("filter"),
					Sort:   v.String("sort"),
					Order:  v.String("order"),
				})
			},
		},
		{
			Name:        "get_work_metadata",
			Title:       "Get work metadata",
			Description: "Fetch the Crossref metadata record of a work by DOI.",
			Action:      "fetching work metadata",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{doiField("doi"), mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).GetWork(ctx, v.String("doi"))
			},
		},
		{
			Name:        "get_doi_agency",
			Title:       "Get DOI agency",
			Description: "Look up which registration agency (Crossref, DataCite, ...) issued a DOI.",
			Action:      "fetching DOI agency",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{doiField("doi"), mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).GetAgency(ctx, v.String("doi"))
			},
		},
		{
			Name:        "batch_get_works",
			Title:       "Batch get works",
			Description: "Fetch metadata for several DOIs. Each DOI gets its own ok or error record, in input order.",
			Action:      "fetching works",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{batchDOIs, mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				cc := c.WithMailto(v.String("mailto"))
				return ops.RunBatch(ctx, v.Strings("dois"), func(ctx context.Context, raw string) (any, error) {
					doi, err := batchDOIs.CheckItem(raw)
					if err != nil {
						return nil, err
					}
					return cc.GetWork(ctx, doi)
				}), nil
			},
		},
		{
			Name:        "search_journals",
			Title:       "Search journals",
			Description: "Search Crossref journals by title.",
			Action:      "searching journals",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{optionalQuery, rowsField, mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).SearchJournals(ctx, v.String("query"), v.Int("limit"))
			},
		},
		{
			Name:        "get_journal",
			Title:       "Get journal",
			Description: "Fetch a journal record by ISSN.",
			Action:      "fetching journal",
			Group:       GroupCrossref,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "issn", Kind: args.String, Description: "Journal ISSN, e.g. 0028-0836", Required: true, Pattern: issnPattern, PatternHint: "be an ISSN like 0028-0836"},
				mailtoField(),
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).GetJournal(ctx, v.String("issn"))
			},
		},
		{
			Name:        "search_funders",
			Title:       "Search funders",
			Description: "Search funding organizations in the Crossref funder registry.",
			Action:      "searching funders",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{optionalQuery, rowsField, mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).SearchFunders(ctx, v.String("query"), v.Int("limit"))
			},
		},
		{
			Name:        "get_funder",
			Title:       "Get funder",
			Description: "Fetch a funder record by its funder registry ID (e.g. 100000001).",
			Action:      "fetching funder",
			Group:       GroupCrossref,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "funder_id", Kind: args.String, Description: "Funder registry ID", Required: true},
				mailtoField(),
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).GetFunder(ctx, v.String("funder_id"))
			},
		},
		{
			Name:        "search_members",
			Title:       "Search members",
			Description: "Search Crossref member organizations (publishers).",
			Action:      "searching members",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{optionalQuery, rowsField, mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).SearchMembers(ctx, v.String("query"), v.Int("limit"))
			},
		},
		{
			Name:        "get_member",
			Title:       "Get member",
			Description: "Fetch a Crossref member by numeric ID.",
			Action:      "fetching member",
			Group:       GroupCrossref,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "member_id", Kind: args.Integer, Description: "Crossref member ID", Required: true, Bounds: &args.Bounds{Min: 1, Max: 1e9}},
				mailtoField(),
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).GetMember(ctx, v.Int("member_id"))
			},
		},
		{
			Name:        "list_work_types",
			Title:       "List work types",
			Description: "List the work types Crossref knows (journal-article, book-chapter, ...).",
			Action:      "listing work types",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).ListTypes(ctx)
			},
		},
		{
			Name:        "get_work_type",
			Title:       "Get work type",
			Description: "Fetch one Crossref work type by ID.",
			Action:      "fetching work type",
			Group:       GroupCrossref,
			Schema: args.Schema{Fields: []args.Field{
				{Name: "type_id", Kind: args.String, Description: "Work type ID, e.g. journal-article", Required: true},
				mailtoField(),
			}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).GetType(ctx, v.String("type_id"))
			},
		},
		{
			Name:        "list_licenses",
			Title:       "List licenses",
			Description: "List license URLs attached to Crossref works.",
			Action:      "listing licenses",
			Group:       GroupCrossref,
			Schema:      args.Schema{Fields: []args.Field{optionalQuery, rowsField, mailtoField()}},
			Handle: func(ctx context.Context, v args.Values) (any, error) {
				return c.WithMailto(v.String("mailto")).ListLicenses(ctx, v.String("query"), v.Int("limit"))
			},
		},
	}
}
