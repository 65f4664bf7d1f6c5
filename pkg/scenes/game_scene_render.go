package scenes

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
	"github.com/decker502/jugglemail/pkg/round"
)

// 装饰物尺寸（世界单位）
const (
	houseHeight   = 1.6
	roadSamples   = 48
	scorePopupFor = 1.0 // 得分提示显示时长（秒）
)

var (
	colorGround = color.NRGBA{R: 96, G: 170, B: 86, A: 255}
	colorRoad   = color.NRGBA{R: 80, G: 80, B: 90, A: 255}
	colorStripe = color.NRGBA{R: 240, G: 240, B: 220, A: 255}
	colorBag    = color.NRGBA{R: 140, G: 90, B: 50, A: 255}
	colorHand   = color.NRGBA{R: 250, G: 214, B: 180, A: 255}
	colorPost   = color.NRGBA{R: 90, G: 70, B: 60, A: 255}
	colorRoof   = color.NRGBA{R: 150, G: 60, B: 50, A: 255}

	houseColors = []color.NRGBA{
		{R: 236, G: 220, B: 190, A: 255},
		{R: 200, G: 214, B: 236, A: 255},
		{R: 236, G: 196, B: 200, A: 255},
		{R: 210, G: 236, B: 200, A: 255},
	}
)

// renderer 把回合快照画成 2.5D 画面
// 世界物体用 3D 摄像机投影，手、信封和邮包画在 UI 平面上
type renderer struct {
	cfg      *config.Config
	envelope *ebiten.Image
	white    *ebiten.Image // 纯色填充用的 1x1 白色子图
}

func newRenderer(cfg *config.Config) *renderer {
	return &renderer{cfg: cfg}
}

// envelopeImage 惰性生成白色信封贴图，绘制时按邮箱颜色着色
func (r *renderer) envelopeImage() *ebiten.Image {
	if r.envelope != nil {
		return r.envelope
	}
	const w, h = 48, 32
	img := ebiten.NewImage(w, h)
	img.Fill(color.White)
	flap := color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	vector.StrokeLine(img, 0, 0, w/2, h*0.6, 2, flap, true)
	vector.StrokeLine(img, w, 0, w/2, h*0.6, 2, flap, true)
	vector.StrokeRect(img, 1, 1, w-2, h-2, 2, flap, true)
	r.envelope = img
	return img
}

func (r *renderer) draw(screen *ebiten.Image, snap round.Snapshot) {
	fillBackground(screen, r.cfg, snap.Progress())
	r.drawWorld(screen, &snap)
	r.drawUI(screen, &snap)
	r.drawHUD(screen, &snap)
}

// pixelsPerUnit 返回深度 depth 处一个世界单位对应的像素数
func pixelsPerUnit(cam geom.Camera3D, screen geom.Vec2, depth float64) float64 {
	if depth <= 0 {
		return 0
	}
	return screen.Y / 2 / math.Tan(cam.Fov/2) / depth
}

// drawWorld 绘制地面、道路、房屋、邮箱、飞行中的信封和 3D 粒子
func (r *renderer) drawWorld(screen *ebiten.Image, snap *round.Snapshot) {
	cam := snap.Camera
	radius := r.cfg.EarthRadius

	// 地面：从最远可见的路面点向下铺满
	far := geom.OnCircle(snap.MyLatitude+geom.Radians(r.cfg.SpawnDistance), 0, radius)
	horizon := 0.0
	if p, ok := cam.Project(snap.Screen, far); ok {
		horizon = math.Max(0, p.Y)
	}
	vector.DrawFilledRect(screen, 0, float32(horizon), float32(snap.Screen.X), float32(snap.Screen.Y-horizon), colorGround, false)

	r.drawRoad(screen, snap)

	// 房屋、邮箱、飞行信封按深度从远到近绘制
	type sprite struct {
		depth float64
		draw  func()
	}
	var sprites []sprite
	for _, h := range snap.Houses {
		h := h
		base := h.Position(radius)
		sprites = append(sprites, sprite{cam.Depth(base), func() { r.drawHouse(screen, snap, h) }})
	}
	for _, m := range snap.Mailboxes {
		m := m
		base := m.Position(radius)
		sprites = append(sprites, sprite{cam.Depth(base), func() { r.drawMailbox(screen, snap, m) }})
	}
	for i := range snap.Thrown {
		ti := &snap.Thrown[i]
		pos := ti.Position(r.cfg.ThrowTime, r.cfg.ThrowHeight)
		sprites = append(sprites, sprite{cam.Depth(pos), func() { r.drawThrown(screen, snap, ti, pos) }})
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].depth > sprites[j].depth
	})
	for _, s := range sprites {
		s.draw()
	}

	for _, p := range snap.Particles3D {
		pos, ok := cam.Project(snap.Screen, p.Pos)
		if !ok {
			continue
		}
		size := r.cfg.ParticleSize * pixelsPerUnit(cam, snap.Screen, cam.Depth(p.Pos))
		clr := p.Color.WithAlpha(p.Color.A * (1 - p.T)).RGBA()
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), float32(math.Max(size, 1)), clr, true)
	}
}

// drawRoad 沿纬度采样道路两侧和中线
func (r *renderer) drawRoad(screen *ebiten.Image, snap *round.Snapshot) {
	cam := snap.Camera
	radius := r.cfg.EarthRadius
	half := r.cfg.RoadWidth
	span := geom.Radians(r.cfg.SpawnDistance + r.cfg.DespawnDistance)
	start := snap.MyLatitude - geom.Radians(r.cfg.DespawnDistance)

	var left, right, mid []geom.Vec2
	for i := 0; i <= roadSamples; i++ {
		lat := start + span*float64(i)/roadSamples
		l, okL := cam.Project(snap.Screen, geom.OnCircle(lat, -half, radius))
		rr, okR := cam.Project(snap.Screen, geom.OnCircle(lat, half, radius))
		m, okM := cam.Project(snap.Screen, geom.OnCircle(lat, 0, radius))
		if !okL || !okR || !okM {
			continue
		}
		left, right, mid = append(left, l), append(right, rr), append(mid, m)
	}

	for i := 1; i < len(left); i++ {
		r.fillPolygon(screen, colorRoad, left[i-1], right[i-1], right[i], left[i])
	}
	for i := 2; i < len(mid); i += 2 {
		vector.StrokeLine(screen, float32(mid[i-1].X), float32(mid[i-1].Y), float32(mid[i].X), float32(mid[i].Y), 2, colorStripe, true)
	}
}

func (r *renderer) drawHouse(screen *ebiten.Image, snap *round.Snapshot, h round.House) {
	cam := snap.Camera
	base := h.Position(r.cfg.EarthRadius)
	top := base.Add(geom.Radial(h.Latitude).Scale(houseHeight))
	pb, ok1 := cam.Project(snap.Screen, base)
	pt, ok2 := cam.Project(snap.Screen, top)
	if !ok1 || !ok2 {
		return
	}
	height := pb.Y - pt.Y
	if height <= 0 {
		return
	}
	width := height * 0.9
	body := houseColors[h.Texture%len(houseColors)]
	vector.DrawFilledRect(screen, float32(pb.X-width/2), float32(pt.Y+height*0.35), float32(width), float32(height*0.65), body, true)

	r.fillPolygon(screen, colorRoof,
		geom.V2(pb.X-width*0.6, pt.Y+height*0.35),
		geom.V2(pb.X, pt.Y),
		geom.V2(pb.X+width*0.6, pt.Y+height*0.35))
}

func (r *renderer) drawMailbox(screen *ebiten.Image, snap *round.Snapshot, m round.Mailbox) {
	cam := snap.Camera
	size := r.cfg.MailboxSize
	base := m.Position(r.cfg.EarthRadius)
	top := base.Add(geom.Radial(m.Latitude).Scale(size))
	pb, ok1 := cam.Project(snap.Screen, base)
	pt, ok2 := cam.Project(snap.Screen, top)
	if !ok1 || !ok2 {
		return
	}
	height := pb.Y - pt.Y
	if height <= 0 {
		return
	}

	vector.StrokeLine(screen, float32(pb.X), float32(pb.Y), float32(pt.X), float32(pt.Y+height/2), float32(math.Max(height/10, 1)), colorPost, true)

	box := r.mailboxColor(m.Color)
	x, y, w, hh := float32(pt.X-height/2), float32(pt.Y), float32(height), float32(height/2)
	vector.DrawFilledRect(screen, x, y, w, hh, box, true)
	if snap.HoveredMailbox[m.ID] {
		vector.StrokeRect(screen, x-3, y-3, w+6, hh+6, 3, color.White, true)
	}
}

func (r *renderer) drawThrown(screen *ebiten.Image, snap *round.Snapshot, ti *round.ThrownItem, pos geom.Vec3) {
	cam := snap.Camera
	p, ok := cam.Project(snap.Screen, pos)
	if !ok {
		return
	}
	ppu := pixelsPerUnit(cam, snap.Screen, cam.Depth(pos))
	half := ti.HalfSize.Scale(r.cfg.ItemThrowScale / r.cfg.ItemScale * ppu)
	r.drawEnvelope(screen, p, half, ti.Rot, r.mailboxColor(ti.Color), 1)
}

// drawUI 绘制 UI 平面：邮包、抛接中的信封、手和 UI 粒子
func (r *renderer) drawUI(screen *ebiten.Image, snap *round.Snapshot) {
	ui := snap.UICamera
	ppu := snap.Screen.Y / ui.Fov

	bagMin := ui.WorldToScreen(snap.Screen, geom.V2(snap.Bag.Min.X, snap.Bag.Max.Y))
	bagSize := snap.Bag.Max.Sub(snap.Bag.Min).Scale(ppu)
	vector.DrawFilledRect(screen, float32(bagMin.X), float32(bagMin.Y), float32(bagSize.X), float32(bagSize.Y), colorBag, true)
	drawText(screen, "MAIL", bagMin.X+bagSize.X/2, bagMin.Y+bagSize.Y/2-10, 1.5, colorText, text.AlignCenter)

	for _, it := range snap.Items {
		pos := ui.WorldToScreen(snap.Screen, it.Pos)
		r.drawEnvelope(screen, pos, it.HalfSize.Scale(ppu), it.Rot, r.mailboxColor(it.Color), 1)
	}

	for _, t := range snap.Touches {
		r.drawTouch(screen, snap, t, ppu)
	}

	for _, p := range snap.ParticlesUI {
		pos := ui.WorldToScreen(snap.Screen, p.Pos.XY())
		clr := p.Color.WithAlpha(p.Color.A * (1 - p.T)).RGBA()
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), float32(math.Max(r.cfg.ParticleSize*ppu, 1)), clr, true)
	}
}

// drawTouch 绘制一只手及其拿着的信封
func (r *renderer) drawTouch(screen *ebiten.Image, snap *round.Snapshot, t round.Touch, ppu float64) {
	alpha := 1.0
	if t.RemoveTime != nil {
		alpha = 1 - math.Min(*t.RemoveTime, 1)
	}
	pos := t.Position

	// 未拾取到物品时左右抖动
	if t.ErrorAnimationTime < 1 {
		decay := 1 - t.ErrorAnimationTime
		pos.X += math.Sin(t.ErrorAnimationTime*r.cfg.ErrorAnimationFreq) * r.cfg.ErrorAnimationDistance * decay * ppu
	}
	// 松手后向上推出
	if t.ThrowAnimationTime < 1 {
		pos.Y -= math.Sin(t.ThrowAnimationTime*math.Pi) * r.cfg.ThrowHandDistance * ppu
	}

	if t.Holding != nil {
		half := t.Holding.HalfSize.Scale(r.cfg.ItemHoldScale * ppu)
		r.drawEnvelope(screen, pos, half, t.Holding.Rot, r.mailboxColor(t.Holding.Color), alpha)
	}

	hand := colorHand
	hand.A = uint8(float64(hand.A) * alpha)
	radius := float32(r.cfg.HandRadius * ppu)
	vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), radius, hand, true)
	vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), radius, 2, color.NRGBA{R: 120, G: 80, B: 60, A: hand.A}, true)
}

// drawEnvelope 以 center 为中心绘制旋转的信封
// rot 为 UI 平面（y 向上）中的角度，屏幕 y 向下所以取反
func (r *renderer) drawEnvelope(screen *ebiten.Image, center, half geom.Vec2, rot float64, clr color.Color, alpha float64) {
	img := r.envelopeImage()
	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(2*half.X/w, 2*half.Y/h)
	op.GeoM.Rotate(-rot)
	op.GeoM.Translate(center.X, center.Y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// drawHUD 绘制分数、倍率、剩余时间、生命和结束提示
func (r *renderer) drawHUD(screen *ebiten.Image, snap *round.Snapshot) {
	w := snap.Screen.X

	// 时间进度条
	barW := w - 40
	vector.DrawFilledRect(screen, 20, 12, float32(barW), 8, colorShadow, false)
	vector.DrawFilledRect(screen, 20, 12, float32(barW*(1-snap.Progress())), 8, colorText, false)

	drawText(screen, fmt.Sprintf("%d", int64(snap.Score)), w/2+2, 30, 3, colorShadow, text.AlignCenter)
	drawText(screen, fmt.Sprintf("%d", int64(snap.Score)), w/2, 28, 3, colorText, text.AlignCenter)
	if snap.Multiplier > 1 {
		drawText(screen, fmt.Sprintf("x%d", snap.Multiplier), w/2+90, 40, 2, r.cfg.ScoreColor.RGBA(), text.AlignStart)
	}

	if snap.LastScore > 0 && snap.LastScoreT < scorePopupFor {
		a := 1 - snap.LastScoreT/scorePopupFor
		clr := r.cfg.ScoreColor.WithAlpha(r.cfg.ScoreColor.A * a).RGBA()
		drawText(screen, fmt.Sprintf("+%d", int64(snap.LastScore)), w/2, 80-snap.LastScoreT*30, 2.5, clr, text.AlignCenter)
	}

	for i := 0; i < snap.Lives; i++ {
		vector.DrawFilledCircle(screen, float32(32+i*26), 46, 9, r.cfg.ExplosionColor.RGBA(), true)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.0fs", math.Max(snap.TimeLeft, 0)), int(w)-60, 36)

	if snap.Phase != round.PhasePlaying {
		msg := "TIME UP"
		if snap.Lives == 0 {
			msg = "OUT OF LIVES"
		}
		a := math.Min(snap.EndTimer*3, 1)
		shade := colorShadow
		shade.A = uint8(float64(shade.A) * a)
		vector.DrawFilledRect(screen, 0, float32(snap.Screen.Y/2-50), float32(w), 100, shade, false)
		clr := colorText
		clr.A = uint8(255 * a)
		drawText(screen, msg, w/2, snap.Screen.Y/2-26, 4, clr, text.AlignCenter)
	}
}

// mailboxColor 调色板颜色，越界时取模
func (r *renderer) mailboxColor(i int) color.NRGBA {
	n := len(r.cfg.MailboxColors)
	if n == 0 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return r.cfg.MailboxColors[((i%n)+n)%n].RGBA()
}

// fillPolygon 用纯色填充凸多边形（扇形三角化）
func (r *renderer) fillPolygon(dst *ebiten.Image, clr color.NRGBA, pts ...geom.Vec2) {
	if len(pts) < 3 {
		return
	}
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	cr := float32(clr.R) / 255
	cg := float32(clr.G) / 255
	cb := float32(clr.B) / 255
	ca := float32(clr.A) / 255
	vs := make([]ebiten.Vertex, 0, len(pts))
	for _, p := range pts {
		vs = append(vs, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1.5, SrcY: 1.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	is := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i+1 < len(pts); i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vs, is, r.white, op)
}
