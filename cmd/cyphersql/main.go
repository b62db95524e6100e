// Command cyphersql is the engine's CLI entrypoint: plan/sql against a
// demo Cypher scenario and a catalog YAML file, or validate a catalog file
// on its own. Grounded on LederWorks-gorepos's cmd/gorepos/main.go (a
// package-var rootCmd plus RunE-per-subcommand cobra tree) and
// wayli-app-fluxbase's cli/cmd package-level global-flag convention.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyphersql/graphengine/config"
)

var (
	cfgFile     string
	catalogFile string
	schemaName  string
)

var rootCmd = &cobra.Command{
	Use:   "cyphersql",
	Short: "Cypher-to-SQL graph query engine",
	Long: `cyphersql plans openCypher queries against a YAML graph catalog and
renders the resulting SQL for a columnar OLAP backend.

Since the Cypher parser itself is an external collaborator (not part of
this engine), "plan"/"sql" run one of the engine's built-in demo
scenarios rather than arbitrary Cypher text — see "cyphersql plan --list".`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: searches ./cyphersql.yaml etc.)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "graph catalog YAML file (required for plan/sql/catalog validate)")
	rootCmd.PersistentFlags().StringVar(&schemaName, "schema", "", "override the catalog's schema name for the render-plan cache key")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(catalogCmd)
}

func loadConfig() (*config.Config, error) {
	paths := config.DefaultConfigPaths()
	if cfgFile != "" {
		paths = append([]string{cfgFile}, paths...)
	}
	return config.Load(paths...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
