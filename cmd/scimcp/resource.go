package main

import (
	"context"

	"github.com/spf13/cobra"
)

var resourceCmd = &cobra.Command{
	Use:   "resource <uri>",
	Short: "Read one resource",
	Long: `Read a resource by URI and print its JSON.

URI forms:
  chembl://compound/<ChEMBL ID>     chembl://target/<ChEMBL ID>
  chembl://assay/<ChEMBL ID>        chembl://activity/<activity ID>
  chembl://search/<query>
  crossref://work/<DOI>             crossref://member/<member ID>
  crossref://funder/<funder ID>     crossref://journal/<ISSN>
  crossref://type/<type ID>

Examples:
  scimcp resource chembl://compound/CHEMBL25
  scimcp resource crossref://work/10.1038/nature14539`,
	Args: cobra.ExactArgs(1),
	Run:  runResource,
}

func init() {
	rootCmd.AddCommand(resourceCmd)
}

func runResource(cmd *cobra.Command, args []string) {
	a := mustBuildApp(cmd)
	defer a.logger.Sync() //nolint:errcheck

	out, err := a.server.ReadResource(context.Background(), args[0])
	if err != nil {
		exitWithError(exitCodeFor(err), "reading %s: %v", args[0], err)
	}
	outputJSON(out)
}
