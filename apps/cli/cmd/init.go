package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/core/config"
	"github.com/spf13/cobra"
)

const (
	initConfigFile  = "crudspec.yaml"
	initCatalogFile = "catalog.yaml"
	initAPIURL      = "http://localhost:3000"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new crudspec project",
	Long: `Initialize a new crudspec project in the current directory.

This creates:
  - crudspec.yaml   - Configuration file pointing at a local API
  - catalog.yaml    - The built-in step catalog, ready to edit

Examples:
  crudspec init
  crudspec init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, initConfigFile)
	catalogFile := filepath.Join(cwd, initCatalogFile)

	if !forceInit {
		for _, f := range []string{configFile, catalogFile} {
			if _, err := os.Stat(f); err == nil {
				return exitErr(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.APIURL = initAPIURL
	cfg.Catalog = initCatalogFile
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	data, err := catalog.Marshal(catalog.Default())
	if err != nil {
		return fmt.Errorf("failed to render catalog: %w", err)
	}
	if err := os.WriteFile(catalogFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Initialized crudspec project:")
	fmt.Fprintf(out, "  Created %s\n", initConfigFile)
	fmt.Fprintf(out, "  Created %s\n", initCatalogFile)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Start an API:  crudspec serve")
	fmt.Fprintln(out, "  2. Run the steps: crudspec run")
	return nil
}
