package ops

import "context"

// Batch outcome statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ItemOutcome is the result of one item of a batch. Exactly one of Result or
// Error is set.
type ItemOutcome struct {
	Index  int    `json:"index"`
	Input  any    `json:"input"`
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult is the payload of every batch operation.
type BatchResult struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []ItemOutcome `json:"results"`
}

// RunBatch applies fn to each item sequentially and records one outcome per
// item in input order. A failing item never stops the remaining ones. If ctx
// is cancelled, the items not yet started are recorded as failures.
func RunBatch[T any](ctx context.Context, items []T, fn func(context.Context, T) (any, error)) BatchResult {
	res := BatchResult{
		Total:   len(items),
		Results: make([]ItemOutcome, 0, len(items)),
	}
	for i, item := range items {
		out := ItemOutcome{Index: i, Input: item}

		var (
			val any
			err error
		)
		if err = ctx.Err(); err == nil {
			val, err = fn(ctx, item)
		}

		if err != nil {
			out.Status = StatusError
			out.Error = err.Error()
			res.Failed++
		} else {
			out.Status = StatusOK
			out.Result = val
			res.Succeeded++
		}
		res.Results = append(res.Results, out)
	}
	return res
}
