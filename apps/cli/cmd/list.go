package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	listCatalogFlag string
	listJSONFlag    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the steps of the catalog",
	Long: `List the steps a run executes, in order. The catalog comes from
--catalog, then from the config file, then the built-in steps.

Examples:
  crudspec list
  crudspec list --catalog steps.yaml
  crudspec list --json`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVar(&listCatalogFlag, "catalog", getEnvString("CRUDSPEC_CATALOG", ""), "YAML catalog to list instead of the built-in steps (env: CRUDSPEC_CATALOG)")
	listCmd.Flags().BoolVar(&listJSONFlag, "json", false, "Print the steps as JSON")
}

// loadCatalog reads path, falling back to the catalog named by a config
// file in the working directory and then to the built-in steps
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cfg, err := config.FindAndLoadConfig(".")
		if err != nil {
			return nil, exitErr(ExitConfigError, fmt.Errorf("loading config: %w", err))
		}
		path = cfg.Catalog
	}
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, exitErr(ExitCatalogError, err)
	}
	return c, nil
}

func listCommand(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog(listCatalogFlag)
	if err != nil {
		return err
	}

	if listJSONFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(c.Steps())
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tMETHOD\tENDPOINT\tTITLE")
	for i, step := range c.Steps() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, step.ID, step.Method, step.Endpoint, step.Title)
	}
	return w.Flush()
}
