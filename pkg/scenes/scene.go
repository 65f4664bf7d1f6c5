// Package scenes 实现游戏的各个界面：主菜单、骑行回合和结算
package scenes

import (
	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/game"
	"github.com/decker502/jugglemail/pkg/leaderboard"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

// Services 各场景共享的依赖，由 app.NewApp 组装
type Services struct {
	Config      *config.Config
	Scenes      *game.SceneManager
	Audio       *game.AudioManager    // 静音时传入没有音频上下文的实例
	Settings    *game.SettingsManager // 可为 nil
	Scores      *game.ScoreBook       // 可为 nil
	Leaderboard *leaderboard.Client   // 可为 nil（不提交成绩）
}

// PlayerName 当前玩家名
func (s *Services) PlayerName() string {
	if s.Settings == nil {
		return game.DefaultPlayerName
	}
	return s.Settings.GetSettings().PlayerName
}

// Selection 上次选择的难度下标
func (s *Services) Selection() config.DifficultySelection {
	if s.Settings == nil {
		return config.DifficultySelection{}
	}
	return s.Settings.DifficultySelection()
}
