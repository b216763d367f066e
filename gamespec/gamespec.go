// Package gamespec holds the typed model for a JSON game description and its
// validation rules. The model is immutable after Parse; the asset pipeline and
// the simulation engine both consume it.
package gamespec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoEntities    = errors.New("game description has no entities")
	ErrDuplicateName = errors.New("duplicate entity name")
)

type GameType string

const (
	GameTypePlatformer GameType = "platformer"
	GameTypeRacing     GameType = "racing"
	GameTypeFlappy     GameType = "flappy"
	GameTypeShooter    GameType = "shooter"
	GameTypeTetris     GameType = "tetris"
)

type GameDescription struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	GameType    GameType           `json:"gameType"`
	Theme       string             `json:"theme,omitempty"`
	ArtStyle    string             `json:"artStyle,omitempty"`
	Entities    []EntityDescriptor `json:"entities"`
	Levels      []LevelDescriptor  `json:"levels"`
}

type EntityDescriptor struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	Color  HexColor `json:"color,omitempty"`
	Points int      `json:"points,omitempty"`
}

type LevelDescriptor struct {
	Name         string                  `json:"name,omitempty"`
	Background   string                  `json:"background,omitempty"`
	Platforms    []PlatformDescriptor    `json:"platforms"`
	Collectibles []CollectibleDescriptor `json:"collectibles"`
}

type PlatformDescriptor struct {
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	Color  HexColor `json:"color,omitempty"`
}

type CollectibleDescriptor struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Points int     `json:"points,omitempty"`
}

// Parse decodes, normalizes and validates a raw JSON game description.
func Parse(data []byte) (*GameDescription, error) {
	var desc GameDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("gamespec: decode description: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	desc.normalize()
	return &desc, nil
}

func (d *GameDescription) Validate() error {
	if d == nil || len(d.Entities) == 0 {
		return ErrNoEntities
	}
	seen := make(map[string]struct{}, len(d.Entities))
	for _, e := range d.Entities {
		name := e.Name
		if name == "" {
			name = "unnamed"
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (d *GameDescription) normalize() {
	if d.GameType == "" {
		d.GameType = GameTypePlatformer
	}
	if d.Theme == "" {
		d.Theme = "fantasy"
	}
	if d.ArtStyle == "" {
		d.ArtStyle = "pixel"
	}
	for i := range d.Entities {
		e := &d.Entities[i]
		if e.Name == "" {
			e.Name = "unnamed"
		}
		if e.Type == "" {
			e.Type = "object"
		}
	}
}

// PlayerEntity returns the first entity declared with type "player".
func (d *GameDescription) PlayerEntity() *EntityDescriptor {
	if d == nil {
		return nil
	}
	for i := range d.Entities {
		if d.Entities[i].Type == "player" {
			return &d.Entities[i]
		}
	}
	return nil
}

// FirstNamedEnemy returns the first entity whose name contains "enemy",
// case-insensitive. Asset ranking keys on the name, not the type tag.
func (d *GameDescription) FirstNamedEnemy() *EntityDescriptor {
	if d == nil {
		return nil
	}
	for i := range d.Entities {
		if strings.Contains(strings.ToLower(d.Entities[i].Name), "enemy") {
			return &d.Entities[i]
		}
	}
	return nil
}

// FirstCollectible walks levels in order, then declaration order.
func (d *GameDescription) FirstCollectible() *CollectibleDescriptor {
	if d == nil {
		return nil
	}
	for i := range d.Levels {
		if len(d.Levels[i].Collectibles) > 0 {
			return &d.Levels[i].Collectibles[0]
		}
	}
	return nil
}

// FirstPlatform walks levels in order, then declaration order.
func (d *GameDescription) FirstPlatform() *PlatformDescriptor {
	if d == nil {
		return nil
	}
	for i := range d.Levels {
		if len(d.Levels[i].Platforms) > 0 {
			return &d.Levels[i].Platforms[0]
		}
	}
	return nil
}

// ActiveLevel returns the first level; sessions never transition levels.
// Descriptions without levels behave as one empty level.
func (d *GameDescription) ActiveLevel() LevelDescriptor {
	if d == nil || len(d.Levels) == 0 {
		return LevelDescriptor{}
	}
	return d.Levels[0]
}

// IsEnemy reports whether an entity is simulated as an enemy. The engine
// accepts either the type tag or the name mentioning "enemy".
func (e *EntityDescriptor) IsEnemy() bool {
	return strings.Contains(strings.ToLower(e.Type), "enemy") ||
		strings.Contains(strings.ToLower(e.Name), "enemy")
}
