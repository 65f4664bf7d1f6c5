package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// TestLoadDefaultConfig 验证仓库自带的默认配置可以通过校验
func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("Load(default) error: %v", err)
	}

	if len(cfg.MailboxColors) != 4 {
		t.Errorf("expected 4 mailbox colors, got %d", len(cfg.MailboxColors))
	}
	if cfg.CameraNear != 0.1 {
		t.Errorf("CameraNear: got %v, want 0.1", cfg.CameraNear)
	}
	if len(cfg.SkyColor) != 2 {
		t.Errorf("expected 2 sky colors, got %d", len(cfg.SkyColor))
	}

	d := cfg.Difficulty(DifficultySelection{})
	if d.TimeScale != 1.0 || d.GameTime != 60 || d.Lives != 3 {
		t.Errorf("default difficulty: got %+v", d)
	}
}

func TestParseErrors(t *testing.T) {
	base, err := os.ReadFile(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("read default config: %v", err)
	}

	tests := []struct {
		name        string
		mutate      func(string) string
		errContains string
		invalid     bool
	}{
		{
			name:        "negative gravity",
			mutate:      func(s string) string { return strings.Replace(s, "gravity: 12.0", "gravity: -1", 1) },
			errContains: "gravity",
			invalid:     true,
		},
		{
			name: "probability above one",
			mutate: func(s string) string {
				return strings.Replace(s, "double_mailbox_probability: 0.2", "double_mailbox_probability: 1.5", 1)
			},
			errContains: "double_mailbox_probability",
			invalid:     true,
		},
		{
			name:        "empty palette",
			mutate:      func(s string) string { return replaceLine(s, "mailbox_colors:", "mailbox_colors: []") },
			errContains: "mailbox_colors",
			invalid:     true,
		},
		{
			name:        "empty lives list",
			mutate:      func(s string) string { return replaceLine(s, "lives:", "lives: []") },
			errContains: "difficulty",
			invalid:     true,
		},
		{
			name:        "rider going backwards",
			mutate:      func(s string) string { return strings.Replace(s, "ride_speed: 0.12", "ride_speed: -0.12", 1) },
			errContains: "ride_speed",
			invalid:     true,
		},
		{
			name:        "frozen time scale",
			mutate:      func(s string) string { return replaceLine(s, "time_scale:", "time_scale: [1.0, 0]") },
			errContains: "time_scale",
			invalid:     true,
		},
		{
			name:        "bad hex color",
			mutate:      func(s string) string { return replaceLine(s, "score_color:", `score_color: "#zzz"`) },
			errContains: "invalid hex color",
		},
		{
			name:        "not yaml",
			mutate:      func(string) string { return "gravity: [" },
			errContains: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(string(base))))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
			}
			if tt.invalid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestColorYAML(t *testing.T) {
	var doc struct {
		Hex   Color `yaml:"hex"`
		Alpha Color `yaml:"alpha"`
		List  Color `yaml:"list"`
		Short Color `yaml:"short"`
	}
	src := `
hex: "#ff0000"
alpha: "#00ff0080"
list: [0.0, 0.0, 1.0, 0.5]
short: [0.2, 0.4, 0.6]
`
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if doc.Hex != (Color{R: 1, A: 1}) {
		t.Errorf("hex: got %+v", doc.Hex)
	}
	if got := doc.Alpha.RGBA(); got.G != 255 || got.A != 128 {
		t.Errorf("alpha: got %+v", got)
	}
	if doc.List != (Color{B: 1, A: 0.5}) {
		t.Errorf("list: got %+v", doc.List)
	}
	if doc.Short.A != 1 {
		t.Errorf("short form should default alpha to 1, got %v", doc.Short.A)
	}

	out, err := yaml.Marshal(doc.Hex)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "#ff0000ff") {
		t.Errorf("marshal: got %q", out)
	}
}

func TestColorRejectsWrongArity(t *testing.T) {
	var c Color
	err := yaml.Unmarshal([]byte(`[1, 2]`), &c)
	if err == nil || !strings.Contains(err.Error(), "3 or 4 components") {
		t.Errorf("expected arity error, got %v", err)
	}
}

func TestDifficultySelection(t *testing.T) {
	cfg := &Config{
		TimeScale: []float64{1, 1.5, 2},
		GameTime:  []float64{60, 120},
		Lives:     []int{3, 5, 1},
	}

	sel := DifficultySelection{}
	sel = sel.Next(cfg, "game_time")
	sel = sel.Next(cfg, "game_time")
	if sel.GameTime != 0 {
		t.Errorf("game_time should wrap, got %d", sel.GameTime)
	}

	sel = sel.Next(cfg, "lives").Next(cfg, "time_scale")
	d := cfg.Difficulty(sel)
	if d != (Difficulty{TimeScale: 1.5, GameTime: 60, Lives: 5}) {
		t.Errorf("Difficulty: got %+v", d)
	}

	if back := cfg.Selection(d); back != sel {
		t.Errorf("Selection: got %+v, want %+v", back, sel)
	}

	if got := cfg.Difficulty(DifficultySelection{Lives: -1}); got.Lives != 1 {
		t.Errorf("negative index should wrap to last, got %d", got.Lives)
	}
}

func replaceLine(s, prefix, repl string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			lines[i] = repl
		}
	}
	return strings.Join(lines, "\n")
}
