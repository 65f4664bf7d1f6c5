package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color RGBA 颜色，各分量范围 0.0 ~ 1.0
//
// YAML 中支持以下写法：
//
//	sky: "#87ceeb"
//	score: "#ffd70080"
//	explosion: [1.0, 0.3, 0.1, 1.0]
type Color struct {
	R, G, B, A float64
}

// UnmarshalYAML 解析十六进制字符串或 3/4 元素数组
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := parseHexColor(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var parts []float64
		if err := node.Decode(&parts); err != nil {
			return fmt.Errorf("line %d: invalid color components: %w", node.Line, err)
		}
		if len(parts) != 3 && len(parts) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 components, got %d", node.Line, len(parts))
		}
		*c = Color{R: parts[0], G: parts[1], B: parts[2], A: 1}
		if len(parts) == 4 {
			c.A = parts[3]
		}
		return nil
	}
	return fmt.Errorf("line %d: unsupported color format", node.Line)
}

// MarshalYAML 输出十六进制字符串
func (c Color) MarshalYAML() (interface{}, error) {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A), nil
}

// RGBA 转换为 image/color 的非预乘颜色
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A),
	}
}

// WithAlpha 返回替换了透明度的颜色
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Lerp 在 c 与 other 之间线性插值
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func parseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
