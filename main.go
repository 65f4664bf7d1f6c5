package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/jugglemail/pkg/app"
	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/embedded"
)

var (
	verbose        = flag.Bool("verbose", false, "显示详细日志")
	configPath     = flag.String("config", "", "调参配置文件路径（默认使用内置 data/config.yaml）")
	playerName     = flag.String("name", "", "玩家名（会保存到设置中）")
	leaderboardURL = flag.String("leaderboard", "", "排行榜服务地址（为空则不提交成绩）")
	leaderboardID  = flag.String("leaderboard-id", "", "排行榜 UUID")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		ConfigPath:     *configPath,
		PlayerName:     *playerName,
		LeaderboardURL: *leaderboardURL,
		LeaderboardID:  *leaderboardID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Juggle Mail")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if code := shutdown(gameApp, ebiten.RunGame(gameApp), os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// closer 退出前需要关闭的应用
type closer interface {
	Close()
}

// shutdown 关闭应用并返回进程退出码
// 非 verbose 模式下 log 输出被丢弃，错误直接写到 w
func shutdown(a closer, runErr error, w io.Writer) int {
	a.Close()
	if runErr != nil {
		fmt.Fprintf(w, "游戏异常退出: %v\n", runErr)
		return 1
	}
	return 0
}
