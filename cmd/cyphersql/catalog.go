package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyphersql/graphengine/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Graph catalog utilities",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate a graph catalog YAML file",
	RunE:  runCatalogValidate,
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogFile == "" {
		return nil, fmt.Errorf("--catalog is required")
	}
	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	cat, err := catalog.LoadYAML(data)
	if err != nil {
		return nil, err
	}
	if schemaName != "" {
		cat.Name = schemaName
	}
	return cat, nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return err
	}
	fmt.Printf("catalog %q is valid: %d node labels, %d relationship types\n",
		cat.Name, len(cat.Nodes), len(cat.Relationships))
	return nil
}
