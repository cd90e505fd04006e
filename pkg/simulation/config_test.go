package simulation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"worldWidth": 1024,
		"worldHeight": 768,
		"maxChildren": 4,
		"discRadius": {"min": 3, "max": 9},
		"seed": 99,
		"showGrid": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, cfg.WorldWidth)
	assert.Equal(t, 768.0, cfg.WorldHeight)
	assert.Equal(t, 4, cfg.MaxChildren)
	assert.Equal(t, Range{Min: 3, Max: 9}, cfg.DiscRadius)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.True(t, cfg.ShowGrid)
	// untouched keys keep their default
	assert.Equal(t, DefaultConfig().MaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultConfig().SourcePower, cfg.SourcePower)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
worldWidth: 640
worldHeight: 480
initialDiscs:
  min: 2
  max: 5
g: 0.25
fieldWorkers: 4
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 640.0, cfg.WorldWidth)
	assert.Equal(t, IntRange{Min: 2, Max: 5}, cfg.InitialDiscs)
	assert.Equal(t, 0.25, cfg.G)
	assert.Equal(t, 4, cfg.FieldWorkers)
}

func TestLoadConfig_EmptyYAMLGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"UnknownKey", "c.json", `{"worldWidth": 100, "boids": 3}`},
		{"WrongType", "c.json", `{"worldWidth": "wide"}`},
		{"NegativeSize", "c.json", `{"worldHeight": -10}`},
		{"ZeroChildren", "c.yaml", "maxChildren: 0\n"},
		{"MinAboveMax", "c.json", `{"sourceRadius": {"min": 90, "max": 10}}`},
		{"DiscTooBig", "c.json", `{"worldWidth": 20, "discRadius": {"min": 5, "max": 15}}`},
		{"BadJSON", "c.json", `{"worldWidth": `},
		{"BadYAML", "c.yaml", "worldWidth: [1, 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfig_ValidateCollectsEveryError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxChildren = 0
	cfg.DiscSpeed = -1
	cfg.InitialSources = IntRange{Min: 3, Max: 1}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxChildren")
	assert.Contains(t, err.Error(), "discSpeed")
	assert.Contains(t, err.Error(), "initialSources")
}

func TestConfig_ValidateMatchesSchemaBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"ZeroG", func(c *Config) { c.G = 0 }, "g must be"},
		{"NegativeG", func(c *Config) { c.G = -0.5 }, "g must be"},
		{"ZeroPlacedRadius", func(c *Config) { c.MaxPlacedSourceRadius = 0 }, "maxPlacedSourceRadius"},
		{"NoFieldWorkers", func(c *Config) { c.FieldWorkers = 0 }, "fieldWorkers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)

			_, err = NewState(cfg)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ShippedFiles(t *testing.T) {
	def, err := LoadConfig(filepath.Join("..", "..", "configs", "discsim.yaml"))
	require.NoError(t, err)
	want := DefaultConfig()
	want.ShowStats = true
	assert.Equal(t, want, def)

	crowd, err := LoadConfig(filepath.Join("..", "..", "configs", "crowd.json"))
	require.NoError(t, err)
	assert.Equal(t, 300, crowd.InitialDiscs.Min)
	assert.Equal(t, 4, crowd.FieldWorkers)
	assert.Equal(t, uint64(2024), crowd.Seed)
}
