package scenes

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/jugglemail/pkg/game"
	"github.com/decker502/jugglemail/pkg/leaderboard"
	"github.com/decker502/jugglemail/pkg/round"
)

// 结算界面按钮下标
const (
	finalButtonAgain = iota
	finalButtonMenu
)

// submitOutcome 后台提交的结果
type submitOutcome struct {
	result leaderboard.Result
	err    error
}

// FinalScene 结算界面
//
// 显示本局难度与分数，记录本地最高分，并在后台向排行榜提交成绩。
// "Play again" 以相同难度开始新的一局，"Menu" 返回主菜单。
type FinalScene struct {
	svc     *Services
	result  round.Result
	name    string
	buttons []button
	hovered int

	newBest bool
	best    game.BestScore
	hasBest bool

	// 排行榜提交状态
	cancel    context.CancelFunc
	outcomes  chan submitOutcome
	pending   bool
	board     *leaderboard.Result
	boardErr  error
	submitted bool
}

// NewFinalScene 创建结算界面，写入成绩簿并开始提交排行榜
func NewFinalScene(svc *Services, res round.Result) *FinalScene {
	scene := &FinalScene{
		svc:     svc,
		result:  res,
		name:    svc.PlayerName(),
		hovered: -1,
	}

	const w, h = 220.0, 50.0
	y := float64(WindowHeight) - 110
	scene.buttons = []button{
		{label: "Play again", x: WindowWidth/2 - w - 20, y: y, w: w, h: h},
		{label: "Menu", x: WindowWidth/2 + 20, y: y, w: w, h: h},
	}

	if svc.Scores != nil {
		improved, err := svc.Scores.Record(res.Difficulty, scene.name, res.Score)
		if err != nil {
			log.Printf("[FinalScene] Warning: failed to save score: %v", err)
		}
		scene.newBest = improved
		scene.best, scene.hasBest = svc.Scores.Best(res.Difficulty)
	}

	scene.submit()
	log.Printf("[FinalScene] Score %.0f at %s", res.Score, res.Difficulty)
	return scene
}

// submit 在后台提交成绩，结果通过带缓冲的通道返回
func (f *FinalScene) submit() {
	if !f.svc.Leaderboard.Enabled() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.outcomes = make(chan submitOutcome, 1)
	f.pending = true
	f.submitted = true

	lb := f.svc.Leaderboard
	diff, name, score := f.result.Difficulty, f.name, f.result.Score
	go func() {
		res, err := lb.Submit(ctx, diff, name, score)
		f.outcomes <- submitOutcome{result: res, err: err}
	}()
}

// pollSubmission 非阻塞地检查后台提交是否完成
func (f *FinalScene) pollSubmission() {
	if !f.pending {
		return
	}
	select {
	case out := <-f.outcomes:
		f.pending = false
		if out.err != nil {
			f.boardErr = out.err
			if !errors.Is(out.err, context.Canceled) {
				log.Printf("[FinalScene] Leaderboard unavailable: %v", out.err)
			}
			return
		}
		f.board = &out.result
	default:
	}
}

// Update 处理按钮与按键
func (f *FinalScene) Update(deltaTime float64) {
	f.pollSubmission()

	switch {
	case anyKeyJustPressed(ebiten.KeyR, ebiten.KeyEnter):
		f.activate(finalButtonAgain)
		return
	case anyKeyJustPressed(ebiten.KeyEscape, ebiten.KeyBackspace):
		f.activate(finalButtonMenu)
		return
	}

	f.hovered = hitButton(f.buttons, cursor())
	for _, p := range justClicked() {
		if i := hitButton(f.buttons, p); i >= 0 {
			f.activate(i)
			return
		}
	}
}

func (f *FinalScene) activate(i int) {
	f.svc.Audio.PlaySound(game.SoundClick)
	switch i {
	case finalButtonAgain:
		f.svc.Scenes.SwitchTo(NewGameScene(f.svc, f.result.Difficulty))
	case finalButtonMenu:
		f.svc.Scenes.Pop()
	}
}

// Close 实现 game.Closer，取消尚未完成的提交
func (f *FinalScene) Close() error {
	if f.cancel != nil {
		f.cancel()
	}
	return nil
}

// Draw 绘制结算界面
func (f *FinalScene) Draw(screen *ebiten.Image) {
	fillBackground(screen, f.svc.Config, 1)

	cx := float64(WindowWidth) / 2
	drawText(screen, f.result.Difficulty.String(), cx, 40, 2, colorTextDim, text.AlignCenter)
	drawText(screen, fmt.Sprintf("%d", int64(f.result.Score)), cx+4, 84, 6, colorShadow, text.AlignCenter)
	drawText(screen, fmt.Sprintf("%d", int64(f.result.Score)), cx, 80, 6, colorText, text.AlignCenter)

	switch {
	case f.newBest:
		drawText(screen, "New personal best!", cx, 170, 2, f.svc.Config.ScoreColor.RGBA(), text.AlignCenter)
	case f.hasBest:
		drawText(screen, fmt.Sprintf("Personal best: %d", f.best.Score), cx, 170, 2, colorTextDim, text.AlignCenter)
	}

	y := 220.0
	switch {
	case !f.submitted:
	case f.pending:
		drawText(screen, "Submitting score...", cx, y, 1.5, colorTextDim, text.AlignCenter)
	case f.boardErr != nil:
		drawText(screen, "Leaderboard unavailable", cx, y, 1.5, colorTextDim, text.AlignCenter)
	case f.board != nil:
		drawText(screen, fmt.Sprintf("Rank #%d", f.board.Rank+1), cx, y, 2, colorText, text.AlignCenter)
		for i, s := range f.board.Top {
			line := fmt.Sprintf("%d. %-20s %8d", i+1, s.Player, int64(s.Score))
			clr := colorTextDim
			if s.Player == f.name {
				clr = colorText
			}
			drawText(screen, line, cx, y+36+float64(i)*24, 1.5, clr, text.AlignCenter)
		}
	}

	for i, b := range f.buttons {
		b.draw(screen, i == f.hovered)
	}
}
