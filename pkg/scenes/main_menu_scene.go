package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/game"
)

// 主菜单按钮下标
const (
	menuButtonSpeed = iota
	menuButtonTime
	menuButtonLives
	menuButtonPlay
)

// MainMenuScene 主菜单
// 三个按钮分别循环切换速度、时长、生命数，选择会写入设置；
// Play 开始一局，Esc 退出游戏。
type MainMenuScene struct {
	svc     *Services
	sel     config.DifficultySelection
	buttons []button
	hovered int
}

// NewMainMenuScene 创建主菜单，恢复上次选择的难度
func NewMainMenuScene(svc *Services) *MainMenuScene {
	scene := &MainMenuScene{
		svc:     svc,
		sel:     svc.Selection(),
		hovered: -1,
	}

	const w, h = 300.0, 50.0
	x := (WindowWidth - w) / 2
	labels := []string{"speed", "time", "lives", "Play"}
	for i, label := range labels {
		y := 220 + float64(i)*(h+16)
		if i == menuButtonPlay {
			y += 20
		}
		scene.buttons = append(scene.buttons, button{label: label, x: x, y: y, w: w, h: h})
	}
	scene.refreshLabels()

	log.Printf("[MainMenuScene] Ready, difficulty %s", scene.Difficulty())
	return scene
}

// Difficulty 当前选中的难度
func (m *MainMenuScene) Difficulty() config.Difficulty {
	return m.svc.Config.Difficulty(m.sel)
}

// Update 处理菜单输入
func (m *MainMenuScene) Update(deltaTime float64) {
	if anyKeyJustPressed(ebiten.KeyEscape) {
		log.Printf("[MainMenuScene] Quit requested")
		m.svc.Scenes.Pop()
		return
	}
	if anyKeyJustPressed(ebiten.KeyEnter, ebiten.KeySpace) {
		m.activate(menuButtonPlay)
		return
	}

	m.hovered = hitButton(m.buttons, cursor())
	for _, p := range justClicked() {
		if i := hitButton(m.buttons, p); i >= 0 {
			m.activate(i)
			return
		}
	}
}

// activate 执行按钮动作
func (m *MainMenuScene) activate(i int) {
	m.svc.Audio.PlaySound(game.SoundClick)

	switch i {
	case menuButtonSpeed:
		m.cycle("time_scale")
	case menuButtonTime:
		m.cycle("game_time")
	case menuButtonLives:
		m.cycle("lives")
	case menuButtonPlay:
		diff := m.Difficulty()
		log.Printf("[MainMenuScene] Starting round: %s", diff)
		m.svc.Scenes.Push(NewGameScene(m.svc, diff))
	}
}

// cycle 切换一个难度分量并持久化
func (m *MainMenuScene) cycle(field string) {
	m.sel = m.sel.Next(m.svc.Config, field)
	m.refreshLabels()

	if m.svc.Settings == nil {
		return
	}
	m.svc.Settings.SetDifficultySelection(m.sel)
	if err := m.svc.Settings.Save(); err != nil {
		log.Printf("[MainMenuScene] Warning: failed to save difficulty: %v", err)
	}
}

func (m *MainMenuScene) refreshLabels() {
	d := m.Difficulty()
	m.buttons[menuButtonSpeed].label = fmt.Sprintf("Speed x%g", d.TimeScale)
	m.buttons[menuButtonTime].label = fmt.Sprintf("Time %.0fs", d.GameTime)
	m.buttons[menuButtonLives].label = fmt.Sprintf("Lives %d", d.Lives)
}

// Draw 绘制菜单
func (m *MainMenuScene) Draw(screen *ebiten.Image) {
	fillBackground(screen, m.svc.Config, 0)

	drawText(screen, "JUGGLE MAIL", WindowWidth/2+3, 83, 5, colorShadow, text.AlignCenter)
	drawText(screen, "JUGGLE MAIL", WindowWidth/2, 80, 5, colorText, text.AlignCenter)
	drawText(screen, "catch, juggle and deliver the mail", WindowWidth/2, 160, 1.5, colorTextDim, text.AlignCenter)

	for i, b := range m.buttons {
		b.draw(screen, i == m.hovered)
	}

	footer := "Rider: " + m.svc.PlayerName()
	if m.svc.Scores != nil {
		if best, ok := m.svc.Scores.Best(m.Difficulty()); ok {
			footer += fmt.Sprintf("   Best: %d", best.Score)
		}
	}
	drawText(screen, footer, WindowWidth/2, WindowHeight-70, 1.5, colorText, text.AlignCenter)
	drawText(screen, "Enter: play   Esc: quit   F11: fullscreen", WindowWidth/2, WindowHeight-36, 1, colorTextDim, text.AlignCenter)
}
