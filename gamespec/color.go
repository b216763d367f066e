package gamespec

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// HexColor decodes "#RRGGBB" / "#RRGGBBAA" JSON strings. The zero value is
// unset, letting callers apply per-kind defaults.
type HexColor struct {
	color.Color
}

func (c *HexColor) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("color must be a string: %w", err)
	}

	// Non-hex strings (including "") fall through to the per-kind default.
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "#") {
		c.Color = nil
		return nil
	}

	parsed, err := ParseHexColor(raw)
	if err != nil {
		return err
	}

	c.Color = parsed
	return nil
}

func (c HexColor) MarshalJSON() ([]byte, error) {
	if c.Color == nil {
		return []byte("null"), nil
	}
	r, g, b, a := c.RGBA()
	if a>>8 != 0xff {
		return json.Marshal(fmt.Sprintf("#%02X%02X%02X%02X", r>>8, g>>8, b>>8, a>>8))
	}
	return json.Marshal(fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8))
}

func (c HexColor) IsSet() bool {
	return c.Color != nil
}

// Or returns the parsed color, or fallback when the field was absent.
func (c HexColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}

func ParseHexColor(raw string) (color.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")

	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %q", raw)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return nil, fmt.Errorf("invalid color format: %q", raw)
	}
	g, err := parse(2)
	if err != nil {
		return nil, fmt.Errorf("invalid color format: %q", raw)
	}
	b, err := parse(4)
	if err != nil {
		return nil, fmt.Errorf("invalid color format: %q", raw)
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return nil, fmt.Errorf("invalid color format: %q", raw)
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
