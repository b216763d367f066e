package prefabs

import (
	"fmt"
	"image/color"

	"gopkg.in/yaml.v3"

	"github.com/codecravings/game-builder/gamespec"
)

// Defaults are the spawn-time archetype values applied wherever a game
// description leaves a field out.
type Defaults struct {
	Entity      EntitySpec      `yaml:"entity"`
	Platform    PlatformSpec    `yaml:"platform"`
	Collectible CollectibleSpec `yaml:"collectible"`
	Enemy       EnemySpec       `yaml:"enemy"`
	Fallback    FallbackSpec    `yaml:"fallback"`
	Spawn       SpawnSpec       `yaml:"spawn"`
}

type EntitySpec struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Color  YAMLColor `yaml:"color"`
}

type PlatformSpec struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Color  YAMLColor `yaml:"color"`
}

type CollectibleSpec struct {
	Width  float64   `yaml:"width"`
	Height float64   `yaml:"height"`
	Points int       `yaml:"points"`
	Color  YAMLColor `yaml:"color"`
}

type EnemySpec struct {
	Speed       float64 `yaml:"speed"`
	PatrolRange float64 `yaml:"patrol_range"`
}

type FallbackSpec struct {
	Color YAMLColor `yaml:"color"`
}

type SpawnSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadDefaults() (Defaults, error) {
	return LoadSpec[Defaults]("defaults.yaml")
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	parsed, err := gamespec.ParseHexColor(value.Value)
	if err != nil {
		return err
	}

	c.Color = parsed
	return nil
}

// Or returns the parsed color, or fallback when the spec never set
// one. A partial override file leaves colors unset; callers must not
// rely on the zero value being drawable.
func (c YAMLColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}
