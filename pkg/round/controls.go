package round

import (
	"math"

	"github.com/decker502/jugglemail/pkg/geom"
)

// TouchStart 触点按下
//
// 收尾阶段忽略一切按下；同一触点已拿着物品时忽略（防止重复拾取）。
// 否则按顺序命中测试：
//  1. 抛接中的物品（包围框外扩 hand_radius，多个重叠时取中心最近者）
//  2. 邮包（同样外扩 hand_radius），命中则生成一个新信封
//  3. 都没命中则触发错误反馈
//
// 参数：
//   - id: 触点标识
//   - pixel: 屏幕像素坐标
func (s *Session) TouchStart(id PointerID, pixel geom.Vec2) {
	if s.phase != PhasePlaying {
		return
	}

	var touch *Touch
	if idx := s.findTouch(id); idx >= 0 {
		touch = s.touches[idx]
		if touch.Holding != nil {
			return
		}
		touch.Position = pixel
		touch.RemoveTime = nil
	} else {
		touch = newTouch(id, pixel)
		s.touches = append(s.touches, touch)
	}

	cursor := s.cam2d.ScreenToWorld(s.screen, pixel)
	if idx := s.hoveredItem(cursor); idx >= 0 {
		item := s.items[idx]
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		touch.Holding = &item
		s.emit(EventPick)
		return
	}

	if s.bag.Expand(s.cfg.HandRadius).Contains(cursor) {
		touch.Holding = s.newItem(cursor)
		s.emit(EventPick)
		return
	}

	touch.ErrorAnimationTime = 0
	s.emit(EventMiss)
}

// TouchMove 触点移动；未知触点会被记录为不持物的被动触点
func (s *Session) TouchMove(id PointerID, pixel geom.Vec2) {
	if idx := s.findTouch(id); idx >= 0 {
		s.touches[idx].Position = pixel
		return
	}
	s.touches = append(s.touches, newTouch(id, pixel))
}

// TouchEnd 触点松开
//
// 找不到触点时为空操作。拿着物品时：松手位置悬停在邮箱上则扔向邮箱，
// 否则重新抛回空中。触点进入移除动画，动画结束后才真正清除。
func (s *Session) TouchEnd(id PointerID, pixel geom.Vec2) {
	idx := s.findTouch(id)
	if idx < 0 {
		return
	}
	touch := s.touches[idx]
	touch.Position = pixel
	removeTime := 0.0
	touch.RemoveTime = &removeTime
	s.release(touch)
}

// release 放开触点手中的物品
func (s *Session) release(touch *Touch) {
	item := touch.Holding
	if item == nil {
		return
	}
	touch.Holding = nil
	touch.ThrowAnimationTime = 0

	if idx := s.hoveredMailbox(touch.Position); idx >= 0 {
		s.throwAt(*item, &s.mailboxes[idx], touch.Position)
		return
	}
	s.toss(*item, s.cam2d.ScreenToWorld(s.screen, touch.Position))
}

// throwAt 把物品扔向邮箱
// 起点从摄像机穿过松手位置的射线偏向前进方向，终点为邮箱中心
func (s *Session) throwAt(item Item, mailbox *Mailbox, pixel geom.Vec2) {
	item.W = s.cfg.ItemThrowMaxW * geom.Signum(mailbox.X)

	cam := s.camera()
	ray := cam.PixelRay(s.screen, pixel)
	forward := cam.Dir()
	dir := ray.Dir.Sub(forward.Scale(forward.Dot(ray.Dir))).Add(forward)

	to := s.mailboxPos(mailbox).Add(geom.Radial(mailbox.Latitude).Scale(s.cfg.MailboxSize / 2))
	s.thrown = append(s.thrown, ThrownItem{
		Item:     item,
		From:     ray.Origin.Add(dir.Normalize()),
		To:       to,
		TargetID: mailbox.ID,
	})
	s.emit(EventThrow)
}

// toss 自由抛出：瞄准固定高度的抛物线速度，带随机偏角，物品回到抛接池
func (s *Session) toss(item Item, cursor geom.Vec2) {
	maxAngle := geom.Radians(s.cfg.ThrowAngle)
	item.Pos = cursor
	item.Vel = geom.V2(0, s.cfg.ThrowTargetHeight).Sub(item.Pos).
		Rotate(randRange(s.rng, -maxAngle, maxAngle)).
		Scale(s.cfg.ThrowSpeed / s.cfg.ThrowTargetHeight)
	item.W = randRange(s.rng, -1, 1) * s.cfg.ItemMaxW
	s.items = append(s.items, item)
	s.emit(EventJuggle)
}

func (s *Session) newItem(pos geom.Vec2) *Item {
	return &Item{
		Texture:  TextureEnvelope,
		Pos:      pos,
		Rot:      randRange(s.rng, 0, 2*math.Pi),
		HalfSize: geom.V2(s.cfg.ItemAspect, 1).Scale(s.cfg.ItemScale),
		Color:    s.rng.Intn(len(s.cfg.MailboxColors)),
	}
}

// hoveredItem 返回光标下的抛接物品下标，多个重叠时取中心距离最近者
func (s *Session) hoveredItem(cursor geom.Vec2) int {
	best := -1
	bestDist := math.Inf(1)
	for i := range s.items {
		it := &s.items[i]
		if !it.contains(cursor, s.cfg.HandRadius) {
			continue
		}
		if d := it.Pos.Sub(cursor).Len(); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// hoveredMailbox 返回屏幕像素下的邮箱下标
//
// 从摄像机穿过像素发射射线，与过邮箱位置、法线为摄像机朝向的平面求交。
// 交点在摄像机后方或超出最大投掷距离时忽略；交点投影到邮箱局部的
// 右/上轴后，横向在半宽内、纵向在 [0, 高度] 内即视为命中。
// 返回第一个命中的邮箱，没有则返回 -1。
func (s *Session) hoveredMailbox(pixel geom.Vec2) int {
	cam := s.camera()
	ray := cam.PixelRay(s.screen, pixel)
	forward := cam.Dir()
	right := geom.V3(1, 0, 0)
	up := right.Cross(forward).Normalize()

	denom := ray.Dir.Dot(forward)
	if denom == 0 {
		return -1
	}
	for i := range s.mailboxes {
		pos := s.mailboxPos(&s.mailboxes[i])
		t := pos.Sub(ray.Origin).Dot(forward) / denom
		if t < 0 || t > s.cfg.MaxThrowDistance {
			continue
		}
		local := ray.At(t).Sub(pos)
		x := local.Dot(right)
		y := local.Dot(up)
		if math.Abs(x) < s.cfg.MailboxSize/2 && y > 0 && y < s.cfg.MailboxSize {
			return i
		}
	}
	return -1
}
