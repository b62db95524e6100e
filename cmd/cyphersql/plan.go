package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyphersql/graphengine/idmapper"
	"github.com/cyphersql/graphengine/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan [scenario]",
	Short: "Plan a demo scenario and print its render-plan summary and cache key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

var sqlCmd = &cobra.Command{
	Use:   "sql [scenario]",
	Short: "Plan a demo scenario and print the rendered SQL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSQL,
}

func init() {
	planCmd.Flags().Bool("list", false, "list available demo scenarios")
	sqlCmd.Flags().Bool("list", false, "list available demo scenarios")
}

func resolveScenario(cmd *cobra.Command, args []string) (string, error) {
	if list, _ := cmd.Flags().GetBool("list"); list {
		fmt.Println(strings.Join(demoNames(), "\n"))
		return "", nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("scenario required; see --list for available names")
	}
	name := args[0]
	if _, ok := demoScenarios[name]; !ok {
		return "", fmt.Errorf("unknown scenario %q; see --list", name)
	}
	return name, nil
}

func planQuery(cmd *cobra.Command, args []string) (*planner.Result, error) {
	name, err := resolveScenario(cmd, args)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	engine := planner.New(cat, idmapper.NewMemMapper(nil))
	return engine.Plan(demoScenarios[name], planner.OptionsFromConfig(cfg))
}

func runPlan(cmd *cobra.Command, args []string) error {
	result, err := planQuery(cmd, args)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	summary := struct {
		RequestID string `json:"request_id"`
		CacheKey  string `json:"cache_key"`
		FromTable string `json:"from_table"`
		FromAlias string `json:"from_alias"`
		CTEs      int    `json:"cte_count"`
		Joins     int    `json:"join_count"`
	}{
		RequestID: result.RequestID.String(),
		CacheKey:  result.CacheKey,
		FromTable: result.RenderPlan.Root.FromTable,
		FromAlias: result.RenderPlan.Root.FromAlias,
		CTEs:      len(result.RenderPlan.Ctes),
		Joins:     len(result.RenderPlan.Root.Joins),
	}
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runSQL(cmd *cobra.Command, args []string) error {
	result, err := planQuery(cmd, args)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	fmt.Println(result.SQL)
	return nil
}
