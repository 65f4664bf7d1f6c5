package scenes

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/game"
	"github.com/decker502/jugglemail/pkg/geom"
	"github.com/decker502/jugglemail/pkg/round"
	"github.com/decker502/jugglemail/pkg/utils"
)

// GameScene 一局骑行
//
// 职责：
//   - 把 Ebitengine 的鼠标、触摸、键盘输入转换为回合的触点事件
//   - 每帧推进回合模拟
//   - 回合结束后切换到结算界面
//
// 按键：R 重开，Esc / Backspace / Enter 返回主菜单。
type GameScene struct {
	svc      *Services
	session  *round.Session
	pointer  *utils.PointerTracker
	events   []utils.PointerEvent
	renderer *renderer
	sound    *soundListener

	// 背景音乐在第一帧开始播放，此时被替换的旧场景已经关闭
	musicStarted bool
}

// NewGameScene 创建新的一局，背景音乐在第一次 Update 时开始
//
// 参数：
//   - svc: 共享依赖
//   - diff: 本局难度
//   - opts: 额外的回合选项（测试中用于注入随机源）
func NewGameScene(svc *Services, diff config.Difficulty, opts ...round.Option) *GameScene {
	return newGameScene(svc, svc.Audio, diff, opts...)
}

func newGameScene(svc *Services, audio soundPlayer, diff config.Difficulty, opts ...round.Option) *GameScene {
	sound := newSoundListener(audio)
	base := []round.Option{
		round.WithScreenSize(WindowWidth, WindowHeight),
		round.WithListener(sound),
	}
	scene := &GameScene{
		svc:      svc,
		session:  round.New(svc.Config, diff, append(base, opts...)...),
		pointer:  utils.NewPointerTracker(),
		renderer: newRenderer(svc.Config),
		sound:    sound,
	}
	log.Printf("[GameScene] Round started: %s", diff)
	return scene
}

// Session 返回本局回合状态
func (g *GameScene) Session() *round.Session {
	return g.session
}

// Update 更新一帧
func (g *GameScene) Update(deltaTime float64) {
	g.startMusic()

	switch {
	case anyKeyJustPressed(ebiten.KeyR):
		g.restart()
		return
	case anyKeyJustPressed(ebiten.KeyEscape, ebiten.KeyBackspace, ebiten.KeyEnter):
		log.Printf("[GameScene] Back to menu")
		g.svc.Scenes.Pop()
		return
	}

	g.events = g.pointer.Poll(g.events[:0])
	applyPointerEvents(g.session, g.events)
	g.step(deltaTime)
}

// step 推进模拟，回合结束时切换到结算界面
func (g *GameScene) step(deltaTime float64) {
	g.session.Step(deltaTime)
	if res, ok := g.session.TakeResult(); ok {
		log.Printf("[GameScene] Round over, score %.0f", res.Score)
		g.svc.Scenes.SwitchTo(NewFinalScene(g.svc, res))
	}
}

// startMusic 首次调用时开始播放骑行音乐
func (g *GameScene) startMusic() {
	if g.musicStarted {
		return
	}
	g.musicStarted = true
	g.sound.playMusic(game.MusicRide)
}

// restart 以相同难度重开
func (g *GameScene) restart() {
	log.Printf("[GameScene] Restart")
	g.svc.Scenes.SwitchTo(newGameScene(g.svc, g.sound.audio, g.session.Difficulty()))
}

// Draw 绘制本帧
func (g *GameScene) Draw(screen *ebiten.Image) {
	g.renderer.draw(screen, g.session.Snapshot())
}

// Close 实现 game.Closer，停止本局的所有声音
func (g *GameScene) Close() error {
	g.pointer.Reset()
	return g.session.Close()
}

// applyPointerEvents 把指针事件转发给回合
func applyPointerEvents(s *round.Session, events []utils.PointerEvent) {
	for _, ev := range events {
		id := round.Primary()
		if ev.Touch {
			id = round.Contact(ev.ID)
		}
		pos := geom.V2(ev.X, ev.Y)

		switch ev.Kind {
		case utils.PointerDown:
			s.TouchStart(id, pos)
		case utils.PointerMove:
			s.TouchMove(id, pos)
		case utils.PointerUp:
			s.TouchEnd(id, pos)
		}
	}
}
