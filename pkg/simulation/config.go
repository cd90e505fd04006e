package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "discsim://config.schema.json"

// Range is an interval [Min, Max) random values are drawn from.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

type Config struct {
	// World Dimensions, also the root region of the quadtree
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight"`

	// Quadtree
	MaxChildren int `json:"maxChildren" yaml:"maxChildren"`
	MaxDepth    int `json:"maxDepth" yaml:"maxDepth"`

	// Initial population
	InitialDiscs   IntRange `json:"initialDiscs" yaml:"initialDiscs"`
	InitialSources IntRange `json:"initialSources" yaml:"initialSources"`

	// Random generators
	DiscRadius   Range   `json:"discRadius" yaml:"discRadius"`
	DiscSpeed    float64 `json:"discSpeed" yaml:"discSpeed"` // each velocity component in [-DiscSpeed, DiscSpeed)
	SourceRadius Range   `json:"sourceRadius" yaml:"sourceRadius"`
	SourcePower  Range   `json:"sourcePower" yaml:"sourcePower"`
	G            float64 `json:"g" yaml:"g"`

	// User placement of sources
	MaxPlacedSourceRadius float64 `json:"maxPlacedSourceRadius" yaml:"maxPlacedSourceRadius"`
	RadiusPerPower        float64 `json:"radiusPerPower" yaml:"radiusPerPower"` // power = radius / RadiusPerPower

	// Seed for the random generators, 0 picks one from the clock
	Seed uint64 `json:"seed" yaml:"seed"`
	// FieldWorkers > 1 gathers field candidates concurrently
	FieldWorkers int `json:"fieldWorkers" yaml:"fieldWorkers"`

	// Display
	ShowGrid  bool `json:"showGrid" yaml:"showGrid"`
	ShowStats bool `json:"showStats" yaml:"showStats"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:            800,
		WorldHeight:           600,
		MaxChildren:           3,
		MaxDepth:              4,
		InitialDiscs:          IntRange{Min: 4, Max: 13},
		InitialSources:        IntRange{Min: 1, Max: 3},
		DiscRadius:            Range{Min: 5, Max: 15},
		DiscSpeed:             3,
		SourceRadius:          Range{Min: 55, Max: 105},
		SourcePower:           Range{Min: 1, Max: 2},
		G:                     0.5,
		MaxPlacedSourceRadius: 85,
		RadiusPerPower:        30,
		FieldWorkers:          1,
	}
}

// Validate checks the rules the schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.WorldWidth, c.WorldHeight))
	}
	if c.MaxChildren < 1 {
		errs = append(errs, fmt.Errorf("maxChildren must be >= 1, got %d", c.MaxChildren))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("maxDepth must be >= 0, got %d", c.MaxDepth))
	}
	checkRange := func(name string, r Range) {
		if r.Min <= 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("%s: need 0 < min <= max, got [%v, %v]", name, r.Min, r.Max))
		}
	}
	checkRange("discRadius", c.DiscRadius)
	checkRange("sourceRadius", c.SourceRadius)
	checkRange("sourcePower", c.SourcePower)
	checkCount := func(name string, r IntRange) {
		if r.Min < 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("%s: need 0 <= min <= max, got [%d, %d]", name, r.Min, r.Max))
		}
	}
	checkCount("initialDiscs", c.InitialDiscs)
	checkCount("initialSources", c.InitialSources)
	if c.DiscSpeed < 0 {
		errs = append(errs, fmt.Errorf("discSpeed must be >= 0, got %v", c.DiscSpeed))
	}
	if c.G <= 0 {
		errs = append(errs, fmt.Errorf("g must be > 0, got %v", c.G))
	}
	if c.MaxPlacedSourceRadius <= 0 {
		errs = append(errs, fmt.Errorf("maxPlacedSourceRadius must be > 0, got %v", c.MaxPlacedSourceRadius))
	}
	if c.FieldWorkers < 1 {
		errs = append(errs, fmt.Errorf("fieldWorkers must be >= 1, got %d", c.FieldWorkers))
	}
	if c.RadiusPerPower <= 0 {
		errs = append(errs, fmt.Errorf("radiusPerPower must be > 0, got %v", c.RadiusPerPower))
	}
	if 2*c.DiscRadius.Max >= c.WorldWidth || 2*c.DiscRadius.Max >= c.WorldHeight {
		errs = append(errs, fmt.Errorf("discRadius.max %v does not fit a %vx%v world", c.DiscRadius.Max, c.WorldWidth, c.WorldHeight))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// LoadConfig reads a JSON or YAML (.yaml, .yml) file, validates it against the
// embedded schema and returns it layered over DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct, missing keys keep their default
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// yamlToJSON re-encodes a YAML document so the JSON schema sees the same
// value types it would get from a .json file.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return json.Marshal(doc)
}
