package game

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/leaderboard"
)

// GameSettings 全局游戏设置
type GameSettings struct {
	// 音频设置
	MusicVolume  float64 `yaml:"musicVolume"`  // 音乐音量 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"` // 音乐开关
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏

	// 玩家信息（排行榜使用）
	PlayerName  string `yaml:"playerName"`
	PlayerID    string `yaml:"playerID"`    // 排行榜服务分配的玩家 UUID
	PlayerToken string `yaml:"playerToken"` // 排行榜提交凭据
	// 注册时使用的名字，改名后需要重新注册
	RegisteredName string `yaml:"registeredName"`

	// 上次选择的难度下标
	TimeScaleIndex int `yaml:"timeScaleIndex"`
	GameTimeIndex  int `yaml:"gameTimeIndex"`
	LivesIndex     int `yaml:"livesIndex"`
}

// DefaultPlayerName 未设置名字时使用的玩家名
const DefaultPlayerName = "Postie"

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,
		Fullscreen:   false,
		PlayerName:   DefaultPlayerName,
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方检查，加载失败不会返回错误（使用默认设置）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上反序列化，旧存档缺失的字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.PlayerName == "" {
		loaded.PlayerName = DefaultPlayerName
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
//
// 返回：
//   - *GameSettings: 当前设置实例
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - volume: 音乐音量 (0.0 ~ 1.0)
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetSoundVolume 设置音效音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - volume: 音效音量 (0.0 ~ 1.0)
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetMusicEnabled 设置音乐开关
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetDifficultySelection 记住菜单中选择的难度（仅内存，需调用 Save() 持久化）
func (sm *SettingsManager) SetDifficultySelection(sel config.DifficultySelection) {
	sm.settings.TimeScaleIndex = sel.TimeScale
	sm.settings.GameTimeIndex = sel.GameTime
	sm.settings.LivesIndex = sel.Lives
}

// DifficultySelection 上次选择的难度下标
func (sm *SettingsManager) DifficultySelection() config.DifficultySelection {
	return config.DifficultySelection{
		TimeScale: sm.settings.TimeScaleIndex,
		GameTime:  sm.settings.GameTimeIndex,
		Lives:     sm.settings.LivesIndex,
	}
}

var playerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

// ValidatePlayerName 校验玩家名
//
// 规则：
//   - 去掉首尾空白后不能为空
//   - 只能包含字母、数字、空格、下划线和连字符
//   - 长度限制 1-20 字符
//
// 参数：
//   - name: 玩家名
//
// 返回：
//   - error: 如果验证失败返回错误
func ValidatePlayerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("player name is empty")
	}
	if len(name) > 20 {
		return fmt.Errorf("player name %q is longer than 20 characters", name)
	}
	if !playerNamePattern.MatchString(name) {
		return fmt.Errorf("player name %q may only contain letters, digits, spaces, '_' and '-'", name)
	}
	return nil
}

// SetPlayerName 设置玩家名（仅内存，需调用 Save() 持久化）
//
// 返回：
//   - error: 名字不合法时返回错误，设置保持不变
func (sm *SettingsManager) SetPlayerName(name string) error {
	if err := ValidatePlayerName(name); err != nil {
		return err
	}
	sm.settings.PlayerName = strings.TrimSpace(name)
	return nil
}

// LoadPlayer 读取已保存的排行榜玩家凭据
//
// 返回：
//   - leaderboard.Player: 保存的凭据
//   - bool: 没有保存过或 ID 不合法时返回 false
func (sm *SettingsManager) LoadPlayer() (leaderboard.Player, bool) {
	id, err := uuid.Parse(sm.settings.PlayerID)
	if err != nil || sm.settings.PlayerToken == "" {
		return leaderboard.Player{}, false
	}
	return leaderboard.Player{
		ID:    id,
		Name:  sm.settings.RegisteredName,
		Token: sm.settings.PlayerToken,
	}, true
}

// SavePlayer 保存排行榜分配的玩家凭据并立即持久化
func (sm *SettingsManager) SavePlayer(p leaderboard.Player) error {
	sm.settings.PlayerID = p.ID.String()
	sm.settings.PlayerToken = p.Token
	sm.settings.RegisteredName = p.Name
	return sm.Save()
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
