package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var toolsGroup string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available operations",
	Long: `List every operation with its arguments.

Examples:
  scimcp tools
  scimcp tools --group chembl --human`,
	Args: cobra.NoArgs,
	Run:  runTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsGroup, "group", "", "Only list operations of this group (crossref, chembl, local)")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) {
	a := mustBuildApp(cmd)

	infos := []OperationInfo{}
	for _, op := range a.reg.Operations() {
		if toolsGroup != "" && op.Group != toolsGroup {
			continue
		}
		infos = append(infos, describe(op))
	}

	if !humanOutput {
		outputJSON(infos)
		return
	}
	for _, info := range infos {
		outputHuman("%s [%s]\n  %s\n", info.Name, info.Group, info.Description)
		for _, arg := range info.Arguments {
			outputHuman("  %s\n", formatArgument(arg))
		}
		outputHuman("\n")
	}
}

func formatArgument(arg ArgumentInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)", arg.Name, arg.Type)
	if arg.Required {
		sb.WriteString(" required")
	}
	if arg.Default != nil {
		fmt.Fprintf(&sb, " default %v", arg.Default)
	}
	if arg.Description != "" {
		sb.WriteString(": " + arg.Description)
	}
	return sb.String()
}
