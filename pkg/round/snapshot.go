package round

import (
	"github.com/decker502/jugglemail/pkg/geom"
)

// Snapshot 渲染器每帧读取的只读状态副本
// 必须在本帧 Step 完成之后获取，避免绘制到一半更新的物理状态
type Snapshot struct {
	RealTime   float64
	Score      float64
	Lives      int
	TimeLeft   float64
	GameTime   float64
	Phase      Phase
	EndTimer   float64
	MyLatitude float64
	Multiplier int

	// LastScore 最近一次投递得分，LastScoreT 为距离那次投递的秒数
	LastScore  float64
	LastScoreT float64

	Camera   geom.Camera3D
	UICamera geom.Camera2D
	Bag      geom.Aabb2
	Screen   geom.Vec2

	Touches     []Touch
	Items       []Item
	Thrown      []ThrownItem
	Mailboxes   []Mailbox
	Houses      []House
	Particles3D []Particle
	ParticlesUI []Particle

	// HoveredMailbox 每个持物触点悬停的邮箱 ID，用于高亮瞄准目标
	HoveredMailbox map[MailboxID]bool
}

// Snapshot 复制当前状态
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		RealTime:   s.realTime,
		Score:      s.score,
		Lives:      s.lives,
		TimeLeft:   s.timeLeft,
		GameTime:   s.diff.GameTime,
		Phase:      s.phase,
		EndTimer:   s.endTimer,
		MyLatitude: s.myLatitude,
		Multiplier: s.multiplier(),
		LastScore:  s.lastScore,
		LastScoreT: s.lastScoreT,
		Camera:     s.camera(),
		UICamera:   s.cam2d,
		Bag:        s.bag,
		Screen:     s.screen,

		Items:       append([]Item(nil), s.items...),
		Thrown:      append([]ThrownItem(nil), s.thrown...),
		Mailboxes:   append([]Mailbox(nil), s.mailboxes...),
		Houses:      append([]House(nil), s.houses...),
		Particles3D: append([]Particle(nil), s.particles3D...),
		ParticlesUI: append([]Particle(nil), s.particlesUI...),

		HoveredMailbox: make(map[MailboxID]bool),
	}

	snap.Touches = make([]Touch, 0, len(s.touches))
	for _, t := range s.touches {
		c := *t
		if t.Holding != nil {
			held := *t.Holding
			c.Holding = &held
			if idx := s.hoveredMailbox(t.Position); idx >= 0 {
				snap.HoveredMailbox[s.mailboxes[idx].ID] = true
			}
		}
		if t.RemoveTime != nil {
			rt := *t.RemoveTime
			c.RemoveTime = &rt
		}
		snap.Touches = append(snap.Touches, c)
	}
	return snap
}

// Progress 回合时间进度 0 → 1
func (s *Snapshot) Progress() float64 {
	if s.GameTime <= 0 {
		return 1
	}
	p := 1 - s.TimeLeft/s.GameTime
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
