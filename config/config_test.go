package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFileOrEnv(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "default", cfg.SchemaName)
	require.Equal(t, "clickhouse", cfg.Dialect)
	require.Equal(t, 100, cfg.MaxCTEDepth)
	require.False(t, cfg.HasTenantID)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyphersql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema_name: social
tenant_id: acme
max_cte_depth: 25
view_parameter_values:
  region: EU
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "social", cfg.SchemaName)
	require.Equal(t, "acme", cfg.TenantID)
	require.True(t, cfg.HasTenantID)
	require.Equal(t, 25, cfg.MaxCTEDepth)
	require.Equal(t, "EU", cfg.ViewParameterValues["region"])
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cyphersql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_name: social\n"), 0o644))

	t.Setenv("CYPHERSQL_SCHEMA_NAME", "flights")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "flights", cfg.SchemaName)
}
