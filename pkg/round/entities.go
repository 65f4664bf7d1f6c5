package round

import (
	"fmt"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
)

// TextureID 外部资源表中的贴图句柄，模拟核心只保存标识不持有渲染资源
type TextureID int

// TextureEnvelope 信封贴图
const TextureEnvelope TextureID = 0

// MailboxID 邮箱唯一标识，回合内单调递增且不复用
type MailboxID uint64

// Item 正在被抛接的信封
type Item struct {
	Texture  TextureID
	Pos      geom.Vec2 // UI 平面坐标
	Vel      geom.Vec2
	Rot      float64
	W        float64 // 角速度（弧度/秒）
	HalfSize geom.Vec2
	Color    int // 调色板下标
}

// contains 判断 UI 平面上的点是否落在物品外扩 margin 后的旋转包围框内
// 做法是把点逆变换到物品局部坐标，再与单位正方形比较
func (it *Item) contains(p geom.Vec2, margin float64) bool {
	local := p.Sub(it.Pos).Rotate(-it.Rot)
	sx := it.HalfSize.X + margin
	sy := it.HalfSize.Y + margin
	if sx <= 0 || sy <= 0 {
		return false
	}
	lx, ly := local.X/sx, local.Y/sy
	return lx >= -1 && lx <= 1 && ly >= -1 && ly <= 1
}

// ThrownItem 飞向邮箱途中的信封
type ThrownItem struct {
	Item
	From     geom.Vec3
	To       geom.Vec3
	T        float64 // 已飞行时间（秒）
	TargetID MailboxID
}

// Position 返回飞行中的世界坐标
// 在 From→To 直线上叠加一段高度为 height 的抛物线
func (ti *ThrownItem) Position(throwTime, height float64) geom.Vec3 {
	t := ti.T / throwTime
	if t > 1 {
		t = 1
	}
	delta := ti.To.Sub(ti.From)
	up := delta.Cross(geom.V3(1, 0, 0)).Scale(-1).Normalize()
	arc := 1 - (1-2*t)*(1-2*t)
	return ti.From.Add(delta.Scale(t)).Add(up.Scale(arc * height))
}

// Mailbox 路边邮箱
type Mailbox struct {
	ID       MailboxID
	X        float64 // 横向偏移，负值在左
	Latitude float64
	Color    int
}

// Position 邮箱底部在地面上的世界坐标
func (m Mailbox) Position(earthRadius float64) geom.Vec3 {
	return geom.OnCircle(m.Latitude, m.X, earthRadius)
}

// House 路边房屋（纯装饰，与邮箱使用相同的前沿生成规则）
type House struct {
	X        float64
	Latitude float64
	Texture  int
}

// Position 房屋底部在地面上的世界坐标
func (h House) Position(earthRadius float64) geom.Vec3 {
	return geom.OnCircle(h.Latitude, h.X, earthRadius)
}

// Particle 粒子
type Particle struct {
	Pos   geom.Vec3
	Vel   geom.Vec3
	T     float64 // 归一化寿命进度 [0, 1)
	Color config.Color
}

// PointerID 输入触点标识
// 鼠标是唯一的主指针，触摸点带平台分配的编号
type PointerID struct {
	contact bool
	id      int
}

// Primary 主指针（鼠标）
func Primary() PointerID {
	return PointerID{}
}

// Contact 编号为 id 的触摸点
func Contact(id int) PointerID {
	return PointerID{contact: true, id: id}
}

// IsPrimary 是否为主指针
func (p PointerID) IsPrimary() bool {
	return !p.contact
}

// ContactID 返回触摸编号；主指针返回 false
func (p PointerID) ContactID() (int, bool) {
	return p.id, p.contact
}

func (p PointerID) String() string {
	if !p.contact {
		return "primary"
	}
	return fmt.Sprintf("contact#%d", p.id)
}

// Touch 一个活动的输入触点
type Touch struct {
	ID       PointerID
	Position geom.Vec2 // 屏幕像素坐标
	Holding  *Item

	ErrorAnimationTime float64 // 0 → 1，未拾取到物品时的抖动反馈
	ThrowAnimationTime float64 // 0 → 1，松手时的抛出动画

	// RemoveTime 非 nil 表示已松开，处于移除动画中（0 → 1）
	RemoveTime *float64
}

func newTouch(id PointerID, pos geom.Vec2) *Touch {
	return &Touch{
		ID:                 id,
		Position:           pos,
		ErrorAnimationTime: 1,
		ThrowAnimationTime: 1,
	}
}
