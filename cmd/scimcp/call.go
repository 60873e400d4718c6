package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/scimcp/internal/ops"
)

var callCmd = &cobra.Command{
	Use:   "call <operation> [json-arguments]",
	Short: "Invoke one operation and print its result",
	Long: `Invoke one operation without MCP. Arguments are a JSON object; omit it
for operations that take none.

Examples:
  scimcp call get_compound '{"chembl_id":"CHEMBL25"}'
  scimcp call search_works_by_query '{"query":"phylogenetics","limit":5}'
  scimcp call evaluate_properties '{"properties":{"molecular_weight":300,"logp":2}}'`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) {
	a := mustBuildApp(cmd)
	defer a.logger.Sync() //nolint:errcheck

	raw, err := parseArguments(args[1:])
	if err != nil {
		exitWithError(ExitInvalidInput, "%v", err)
	}

	op, ok := a.reg.Lookup(args[0])
	if !ok {
		exitWithError(ExitError, "%v: %s (run 'scimcp tools' for the list)", ops.ErrUnknownOperation, args[0])
	}

	out, err := a.server.Invoke(context.Background(), op.Name, raw)
	if err != nil {
		exitWithError(exitCodeFor(err), "%s", op.FailureMessage(err))
	}
	if err := outputJSON(out); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing output: %v\n", err)
		os.Exit(ExitError)
	}
}

// parseArguments decodes the optional JSON object argument.
func parseArguments(args []string) (map[string]any, error) {
	if len(args) == 0 || args[0] == "" {
		return map[string]any{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(args[0]), &raw); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %v", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
