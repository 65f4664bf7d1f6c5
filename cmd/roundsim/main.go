// roundsim 在无窗口环境下用自动驾驶跑完一局，输出事件统计
//
// 用于调参：修改 data/config.yaml 后快速查看一局能投递多少封信、
// 分数大约是多少、是否会因为配置错误而丢命。
//
// 用法：
//
//	go run ./cmd/roundsim -seed 7 -time-scale 1.5 -game-time 60
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
	"github.com/decker502/jugglemail/pkg/round"
)

var (
	configPath = flag.String("config", config.DefaultConfigPath, "调参配置文件路径")
	seed       = flag.Int64("seed", 1, "随机种子")
	timeScale  = flag.Float64("time-scale", 1, "速度倍率")
	gameTime   = flag.Float64("game-time", 60, "回合时长（秒）")
	lives      = flag.Int("lives", 3, "生命数")
	tps        = flag.Int("tps", 60, "每秒模拟帧数")
	verbose    = flag.Bool("verbose", false, "显示详细调试信息")
)

// counter 统计回合事件
type counter map[round.Event]int

func (c counter) OnEvent(ev round.Event) {
	c[ev]++
}

// autopilot 从邮包取信，并扔向前方第一个进入射程的邮箱
type autopilot struct {
	cfg     *config.Config
	holding bool
}

func (a *autopilot) step(s *round.Session) {
	snap := s.Snapshot()
	if !a.holding {
		bag := snap.UICamera.WorldToScreen(snap.Screen, snap.Bag.Center())
		s.TouchStart(round.Primary(), bag)
		a.holding = true
		return
	}

	target, ok := a.aim(&snap)
	if !ok {
		return
	}
	s.TouchMove(round.Primary(), target)
	s.TouchEnd(round.Primary(), target)
	a.holding = false
}

// aim 返回前方第一个邮箱中央的像素坐标
func (a *autopilot) aim(snap *round.Snapshot) (geom.Vec2, bool) {
	cam := snap.Camera
	up := geom.V3(1, 0, 0).Cross(cam.Dir()).Normalize()
	mailboxes := append([]round.Mailbox(nil), snap.Mailboxes...)
	sort.Slice(mailboxes, func(i, j int) bool {
		return mailboxes[i].Latitude < mailboxes[j].Latitude
	})
	for _, m := range mailboxes {
		pos := m.Position(a.cfg.EarthRadius)
		if d := cam.Depth(pos); d <= 0 || d > a.cfg.MaxThrowDistance {
			continue
		}
		return cam.Project(snap.Screen, pos.Add(up.Scale(a.cfg.MailboxSize/2)))
	}
	return geom.Vec2{}, false
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ 配置加载失败: %v\n", err)
		os.Exit(1)
	}

	diff := config.Difficulty{TimeScale: *timeScale, GameTime: *gameTime, Lives: *lives}
	events := counter{}
	s := round.New(cfg, diff,
		round.WithRandom(round.NewRandom(*seed)),
		round.WithListener(events),
		round.WithScreenSize(config.GameWindowWidth, config.GameWindowHeight))
	defer s.Close()

	bot := &autopilot{cfg: cfg}
	dt := 1 / float64(*tps)
	// 正常情况下 GameTime 加收尾 3 秒内结束，多留余量防止死循环
	maxFrames := int((*gameTime + 10) * float64(*tps) * 2)

	var res round.Result
	frames := 0
	finished := false
	for ; frames < maxFrames; frames++ {
		if s.Phase() == round.PhasePlaying {
			bot.step(s)
		}
		s.Step(dt)
		if r, ok := s.TakeResult(); ok {
			res, finished = r, true
			break
		}
	}
	if !finished {
		fmt.Printf("❌ 回合在 %d 帧内没有结束\n", maxFrames)
		os.Exit(1)
	}

	fmt.Printf("✅ 难度: %s, 种子: %d\n", diff, *seed)
	fmt.Printf("✅ 模拟帧数: %d (%.1fs)\n", frames+1, float64(frames+1)*dt)
	fmt.Printf("✅ 最终分数: %.0f, 剩余生命: %d\n", res.Score, s.Lives())
	for _, ev := range []round.Event{
		round.EventPick, round.EventThrow, round.EventDeliver,
		round.EventMiss, round.EventExplosion, round.EventTimeUp, round.EventLose,
	} {
		fmt.Printf("   %-10s %d\n", ev, events[ev])
	}
}
