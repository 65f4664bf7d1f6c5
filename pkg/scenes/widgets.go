package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
)

const (
	// WindowWidth is the logical width of the game window in pixels.
	WindowWidth = config.GameWindowWidth
	// WindowHeight is the logical height of the game window in pixels.
	WindowHeight = config.GameWindowHeight
)

// uiFace 界面文字使用的位图字体，绘制时按需缩放
var uiFace = text.NewGoXFace(basicfont.Face7x13)

var (
	colorText      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorTextDim   = color.NRGBA{R: 220, G: 230, B: 240, A: 200}
	colorButton    = color.NRGBA{R: 40, G: 60, B: 90, A: 200}
	colorButtonHot = color.NRGBA{R: 70, G: 110, B: 160, A: 230}
	colorShadow    = color.NRGBA{A: 140}
)

// drawText 绘制一行文字
//
// 参数：
//   - x, y: 对齐基准点（y 为文字顶部）
//   - scale: 相对 13 像素字高的缩放
//   - align: 水平对齐方式
func drawText(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color, align text.Align) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = align
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, uiFace, op)
}

// button 矩形文字按钮
type button struct {
	label      string
	x, y, w, h float64
}

func (b button) contains(p geom.Vec2) bool {
	return p.X >= b.x && p.X < b.x+b.w && p.Y >= b.y && p.Y < b.y+b.h
}

func (b button) draw(dst *ebiten.Image, hovered bool) {
	bg := colorButton
	if hovered {
		bg = colorButtonHot
	}
	vector.DrawFilledRect(dst, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bg, true)
	vector.StrokeRect(dst, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 2, colorTextDim, true)
	drawText(dst, b.label, b.x+b.w/2, b.y+b.h/2-13, 2, colorText, text.AlignCenter)
}

// hitButton 返回包含该点的按钮下标，没有时返回 -1
func hitButton(buttons []button, p geom.Vec2) int {
	for i, b := range buttons {
		if b.contains(p) {
			return i
		}
	}
	return -1
}

// cursor 当前鼠标位置
func cursor() geom.Vec2 {
	x, y := ebiten.CursorPosition()
	return geom.V2(float64(x), float64(y))
}

// justClicked 返回本帧新按下的所有位置（鼠标左键与触摸）
func justClicked() []geom.Vec2 {
	var clicks []geom.Vec2
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		clicks = append(clicks, cursor())
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		clicks = append(clicks, geom.V2(float64(x), float64(y)))
	}
	return clicks
}

// anyKeyJustPressed 是否刚按下了给定按键中的任意一个
func anyKeyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// fillBackground 用天空颜色填充背景
func fillBackground(dst *ebiten.Image, cfg *config.Config, t float64) {
	dst.Fill(skyColor(cfg, t).RGBA())
}

// skyColor 按回合进度 t 在天空颜色列表首尾之间插值
func skyColor(cfg *config.Config, t float64) config.Color {
	switch len(cfg.SkyColor) {
	case 0:
		return config.Color{R: 0.55, G: 0.8, B: 1, A: 1}
	case 1:
		return cfg.SkyColor[0]
	}
	return cfg.SkyColor[0].Lerp(cfg.SkyColor[len(cfg.SkyColor)-1], t)
}
