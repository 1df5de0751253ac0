package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <catalog.yaml>...",
	Short: "Validate catalog files without executing them",
	Long: `Validate YAML catalog files against the catalog schema and rules
without sending any request.

Examples:
  crudspec validate catalog.yaml
  crudspec validate smoke.yaml full.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	hasErrors := false
	for _, file := range args {
		c, err := catalog.LoadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d steps)\n", file, c.Len())
	}

	if hasErrors {
		return exitErr(ExitCatalogError, fmt.Errorf("validation failed"))
	}
	return nil
}
