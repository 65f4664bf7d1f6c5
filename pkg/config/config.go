// Package config 定义游戏的调参配置与难度选项
//
// 配置以 YAML 格式保存（默认文件 data/config.yaml，随程序嵌入），
// 加载后作为只读结构传入回合，整个回合期间不会被修改。
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 逻辑屏幕尺寸
const (
	GameWindowWidth  = 800
	GameWindowHeight = 600
)

// DefaultConfigPath 嵌入的默认配置路径
const DefaultConfigPath = "data/config.yaml"

// ErrInvalidConfig 配置校验失败
var ErrInvalidConfig = errors.New("invalid config")

// Config 游戏调参配置
//
// 带 "(度)" 标记的字段以角度书写，使用时需转换为弧度。
type Config struct {
	// 背景
	SkyColor []Color `yaml:"sky_color"` // 回合开始与结束时的天空颜色，按进度插值

	// 抛接物理
	Gravity           float64 `yaml:"gravity"`
	ThrowSpeed        float64 `yaml:"throw_speed"`
	ThrowAngle        float64 `yaml:"throw_angle"` // 自由抛出的随机偏角上限 (度)
	ThrowTargetHeight float64 `yaml:"throw_target_height"`
	ItemScale         float64 `yaml:"item_scale"`
	ItemAspect        float64 `yaml:"item_aspect"` // 信封宽高比
	ItemHoldScale     float64 `yaml:"item_hold_scale"`
	ItemMaxW          float64 `yaml:"item_max_w"`
	HandRadius        float64 `yaml:"hand_radius"`

	// 摄像机
	UIFov        float64 `yaml:"ui_fov"`
	Fov          float64 `yaml:"fov"`        // (度)
	CameraRot    float64 `yaml:"camera_rot"` // (度)
	CameraHeight float64 `yaml:"camera_height"`
	CameraNear   float64 `yaml:"camera_near"`

	// 世界
	EarthRadius              float64 `yaml:"earth_radius"`
	RideSpeed                float64 `yaml:"ride_speed"` // 弧度/秒
	RoadWidth                float64 `yaml:"road_width"`
	MailboxSize              float64 `yaml:"mailbox_size"`
	DistanceBetweenMailboxes float64 `yaml:"distance_between_mailboxes"` // (度)
	DoubleMailboxProbability float64 `yaml:"double_mailbox_probability"`
	MailboxColors            []Color `yaml:"mailbox_colors"`
	HouseOffset              float64 `yaml:"house_offset"`
	DistanceBetweenHouses    float64 `yaml:"distance_between_houses"` // (度)
	HouseTextures            int     `yaml:"house_textures"`
	SpawnDistance            float64 `yaml:"spawn_distance"`   // (度)
	DespawnDistance          float64 `yaml:"despawn_distance"` // (度)

	// 投递
	MaxThrowDistance  float64 `yaml:"max_throw_distance"`
	ThrowTime         float64 `yaml:"throw_time"`
	ThrowHeight       float64 `yaml:"throw_height"`
	ItemThrowMaxW     float64 `yaml:"item_throw_max_w"`
	ItemThrowScale    float64 `yaml:"item_throw_scale"`
	RequireColorMatch bool    `yaml:"require_color_match"`

	// 计分
	JugglingScoreMultiplier float64 `yaml:"juggling_score_multiplier"`
	DeliverScore            float64 `yaml:"deliver_score"`

	// 手部动画
	HandRotation           float64 `yaml:"hand_rotation"`
	ThrowAnimationTime     float64 `yaml:"throw_animation_time"`
	ThrowHandDistance      float64 `yaml:"throw_hand_distance"`
	ErrorAnimationTime     float64 `yaml:"error_animation_time"`
	ErrorAnimationDistance float64 `yaml:"error_animation_distance"`
	ErrorAnimationFreq     float64 `yaml:"error_animation_freq"`

	// 粒子
	ParticleCount    int     `yaml:"particle_count"`
	ParticleSpeed    float64 `yaml:"particle_speed"`
	ParticleSize     float64 `yaml:"particle_size"`
	ParticleLifetime float64 `yaml:"particle_lifetime"`
	ExplosionColor   Color   `yaml:"explosion_color"`
	ScoreColor       Color   `yaml:"score_color"`

	// 难度选项
	TimeScale []float64 `yaml:"time_scale"`
	GameTime  []float64 `yaml:"game_time"`
	Lives     []int     `yaml:"lives"`
}

// Load 从文件加载配置
//
// 参数：
//   - path: YAML 配置文件路径
//
// 返回：
//   - *Config: 校验通过的配置
//   - error: 读取、解析或校验失败时返回错误
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置内容并校验
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.CameraNear == 0 {
		cfg.CameraNear = 0.1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置是否可用于回合模拟
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"gravity", c.Gravity},
		{"throw_speed", c.ThrowSpeed},
		{"throw_target_height", c.ThrowTargetHeight},
		{"item_scale", c.ItemScale},
		{"item_aspect", c.ItemAspect},
		{"ui_fov", c.UIFov},
		{"fov", c.Fov},
		{"earth_radius", c.EarthRadius},
		{"ride_speed", c.RideSpeed},
		{"mailbox_size", c.MailboxSize},
		{"distance_between_mailboxes", c.DistanceBetweenMailboxes},
		{"distance_between_houses", c.DistanceBetweenHouses},
		{"spawn_distance", c.SpawnDistance},
		{"max_throw_distance", c.MaxThrowDistance},
		{"throw_time", c.ThrowTime},
		{"throw_animation_time", c.ThrowAnimationTime},
		{"error_animation_time", c.ErrorAnimationTime},
		{"particle_lifetime", c.ParticleLifetime},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.DespawnDistance < 0 {
		return fmt.Errorf("%w: despawn_distance must be >= 0", ErrInvalidConfig)
	}
	if c.DoubleMailboxProbability < 0 || c.DoubleMailboxProbability > 1 {
		return fmt.Errorf("%w: double_mailbox_probability must be in [0, 1], got %v",
			ErrInvalidConfig, c.DoubleMailboxProbability)
	}
	if len(c.MailboxColors) == 0 {
		return fmt.Errorf("%w: mailbox_colors is empty", ErrInvalidConfig)
	}
	if c.HouseTextures <= 0 {
		return fmt.Errorf("%w: house_textures must be > 0", ErrInvalidConfig)
	}
	if c.ParticleCount < 0 {
		return fmt.Errorf("%w: particle_count must be >= 0", ErrInvalidConfig)
	}

	if len(c.TimeScale) == 0 || len(c.GameTime) == 0 || len(c.Lives) == 0 {
		return fmt.Errorf("%w: difficulty option lists must not be empty", ErrInvalidConfig)
	}
	for _, scale := range c.TimeScale {
		if scale <= 0 {
			return fmt.Errorf("%w: time_scale option must be > 0, got %v", ErrInvalidConfig, scale)
		}
	}
	for _, lives := range c.Lives {
		if lives < 0 {
			return fmt.Errorf("%w: lives option must be >= 0, got %d", ErrInvalidConfig, lives)
		}
	}
	return nil
}
