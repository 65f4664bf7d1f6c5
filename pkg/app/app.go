// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/embedded"
	"github.com/decker502/jugglemail/pkg/game"
	"github.com/decker502/jugglemail/pkg/leaderboard"
	"github.com/decker502/jugglemail/pkg/scenes"
	"github.com/decker502/jugglemail/pkg/utils"
)

// AppName gdata 存储使用的应用名
const AppName = "jugglemail"

// DefaultLeaderboardID 默认排行榜标识
var DefaultLeaderboardID = uuid.MustParse("5b0e6a3c-2f8d-4c1a-9e57-0d4b8f1c7a21")

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 调参配置文件路径，为空则使用嵌入的 data/config.yaml
	ConfigPath string
	// PlayerName 覆盖设置中的玩家名（会被保存）
	PlayerName string
	// LeaderboardURL 排行榜服务地址，为空则不提交成绩
	LeaderboardURL string
	// LeaderboardID 排行榜标识，为空则使用 DefaultLeaderboardID
	LeaderboardID string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	services                 *scenes.Services
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameConfig, err := loadGameConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	// 持久化存储，失败时降级为仅内存
	gdataManager := openStorage()

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	if cfg.PlayerName != "" {
		if err := settingsManager.SetPlayerName(cfg.PlayerName); err != nil {
			return nil, fmt.Errorf("invalid player name: %w", err)
		}
		if err := settingsManager.Save(); err != nil {
			log.Printf("[App] Warning: failed to save player name: %v", err)
		}
	}

	lbID := DefaultLeaderboardID
	if cfg.LeaderboardID != "" {
		if lbID, err = uuid.Parse(cfg.LeaderboardID); err != nil {
			return nil, fmt.Errorf("invalid leaderboard id: %w", err)
		}
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(game.SampleRate)
	audioManager := game.NewAudioManager(audioContext, settingsManager)
	audioManager.PreloadSounds([]string{
		game.SoundPick, game.SoundMiss, game.SoundJuggle, game.SoundThrow,
		game.SoundDeliver, game.SoundExplosion, game.SoundLose, game.SoundTimeUp, game.SoundClick,
	})
	log.Printf("[App] AudioManager initialized")

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	services := &scenes.Services{
		Config:      gameConfig,
		Scenes:      sceneManager,
		Audio:       audioManager,
		Settings:    settingsManager,
		Scores:      game.NewScoreBook(gdataManager),
		Leaderboard: leaderboard.NewClient(cfg.LeaderboardURL, lbID, settingsManager),
	}
	if services.Leaderboard.Enabled() {
		log.Printf("[App] Leaderboard: %s (%s)", cfg.LeaderboardURL, lbID)
	}

	if desktopFullscreen(settingsManager.GetSettings()) {
		ebiten.SetFullscreen(true)
	}

	sceneManager.Push(scenes.NewMainMenuScene(services))

	return &App{
		sceneManager: sceneManager,
		services:     services,
		verbose:      cfg.Verbose,
	}, nil
}

// desktopFullscreen 启动时是否恢复全屏，移动端总是全屏显示，不需要切换
func desktopFullscreen(s *game.GameSettings) bool {
	return s.Fullscreen && !utils.IsMobile()
}

// loadGameConfig 读取调参配置，未指定路径时使用嵌入的默认配置
func loadGameConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("配置加载失败: %w", err)
		}
		log.Printf("[Config] Loaded %s", path)
		return cfg, nil
	}

	data, err := embedded.ReadFile(config.DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("嵌入配置读取失败: %w", err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("嵌入配置解析失败: %w", err)
	}
	log.Printf("[Config] Loaded embedded %s", config.DefaultConfigPath)
	return cfg, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir unavailable: %v", err)
	}
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		return nil
	}
	return m
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（仅桌面端）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)

	// 主菜单退出后场景栈为空，结束游戏
	if a.sceneManager.Empty() {
		log.Printf("[App] Scene stack empty, exiting")
		return ebiten.Termination
	}
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	if !fullscreen {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}

	if sm := a.services.Settings; sm != nil {
		sm.SetFullscreen(fullscreen)
		if err := sm.Save(); err != nil {
			log.Printf("[App] Warning: failed to save fullscreen setting: %v", err)
		}
	}
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制游戏画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 关闭所有场景，停止声音并取消后台请求
func (a *App) Close() {
	a.sceneManager.Close()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
