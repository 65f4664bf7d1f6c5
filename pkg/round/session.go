// Package round 实现单局游戏的实时模拟核心
//
// 一个 Session 拥有回合内全部可变状态：抛接中的信封、飞行中的信封、
// 邮箱、房屋、粒子、输入触点，以及分数、生命、倒计时。
// 外部每帧按以下顺序驱动：
//
//  1. 把本帧输入转换为 TouchStart / TouchMove / TouchEnd 调用
//  2. 调用一次 Step(deltaTime)
//  3. 渲染器读取 Snapshot()
//
// 模拟核心是单线程的，不做任何阻塞操作，也不返回错误：
// 乱序或重复的输入被幂等吸收，查找不到的对象视为"已消失"。
package round

import (
	"io"
	"log"
	"math"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
)

// Phase 回合阶段
type Phase int

const (
	// PhasePlaying 正常游戏
	PhasePlaying Phase = iota
	// PhaseEnding 时间耗尽或生命归零后的 3 秒收尾
	PhaseEnding
	// PhaseOver 收尾结束，等待外部切换到结算界面
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseEnding:
		return "ending"
	case PhaseOver:
		return "over"
	}
	return "unknown"
}

// endDuration 收尾阶段时长（秒）
const endDuration = 3.0

// Result 回合结果，交给结算界面和排行榜
type Result struct {
	Score      float64
	Difficulty config.Difficulty
}

// Session 单局游戏状态
type Session struct {
	cfg      *config.Config
	diff     config.Difficulty
	rng      Random
	listener Listener

	screen geom.Vec2
	cam2d  geom.Camera2D
	cam3d  geom.Camera3D
	bag    geom.Aabb2

	realTime   float64
	score      float64
	timeLeft   float64
	nextID     MailboxID
	myLatitude float64
	lives      int
	endTimer   float64
	phase      Phase
	released   bool
	resultSent bool
	closed     bool

	lastScore  float64
	lastScoreT float64

	touches     []*Touch
	items       []Item
	thrown      []ThrownItem
	mailboxes   []Mailbox
	houses      []House
	particles3D []Particle
	particlesUI []Particle
}

// Option 构造选项
type Option func(*Session)

// WithRandom 指定随机源
func WithRandom(rng Random) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// WithListener 指定事件监听器
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// WithScreenSize 指定初始屏幕尺寸（像素）
func WithScreenSize(width, height float64) Option {
	return func(s *Session) {
		s.SetScreenSize(width, height)
	}
}

// New 创建新回合
//
// 所有实体池和计数器清零，倒计时、生命数取自难度，
// 并立即生成玩家前方的第一批邮箱和房屋。
//
// 参数：
//   - cfg: 已校验的只读配置
//   - diff: 难度三元组
//   - opts: 可选的随机源、事件监听器、屏幕尺寸
func New(cfg *config.Config, diff config.Difficulty, opts ...Option) *Session {
	s := &Session{
		cfg:        cfg,
		diff:       diff,
		screen:     geom.V2(config.GameWindowWidth, config.GameWindowHeight),
		cam2d:      geom.Camera2D{Fov: cfg.UIFov},
		timeLeft:   diff.GameTime,
		lives:      diff.Lives,
		lastScoreT: 1,
		cam3d: geom.Camera3D{
			Fov:    geom.Radians(cfg.Fov),
			Rot:    geom.Radians(cfg.CameraRot),
			Height: cfg.EarthRadius + cfg.CameraHeight,
			Near:   cfg.CameraNear,
		},
	}
	s.bag = geom.PointBox(geom.V2(0, -cfg.UIFov/2+1), 1)

	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = defaultRandom()
	}
	if s.lives < 0 {
		s.lives = 0
	}

	s.updateMailboxes()
	s.updateHouses()

	log.Printf("[Round] New round: %s", diff)
	return s
}

// SetScreenSize 更新屏幕尺寸，用于屏幕坐标与世界坐标的换算
func (s *Session) SetScreenSize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.screen = geom.V2(width, height)
}

// LoseLife 失去一条命
//
// 生命为 0 时为空操作；从非零变为零时回合立即进入收尾阶段，
// 即使倒计时尚未结束。
func (s *Session) LoseLife() {
	if s.lives == 0 {
		return
	}
	s.lives--
	s.emit(EventExplosion)
	if s.lives == 0 {
		s.emit(EventLose)
		if s.phase == PhasePlaying {
			s.phase = PhaseEnding
		}
		log.Printf("[Round] Out of lives, %.1fs left", s.timeLeft)
	}
}

// TakeResult 回合结束后返回结果，仅第一次调用返回 true
func (s *Session) TakeResult() (Result, bool) {
	if s.phase != PhaseOver || s.resultSent {
		return Result{}, false
	}
	s.resultSent = true
	return Result{Score: s.score, Difficulty: s.diff}, true
}

// Close 丢弃回合
// 无论处于哪个阶段，监听器若实现 io.Closer 都会被关闭，此后不再派发事件
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	l := s.listener
	s.listener = nil
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) emit(ev Event) {
	if s.listener != nil && !s.closed {
		s.listener.OnEvent(ev)
	}
}

// multiplier 同时抛接的物品越多，得分倍率越高
func (s *Session) multiplier() int {
	n := len(s.items) + 1
	for _, t := range s.touches {
		if t.Holding != nil {
			n++
		}
	}
	return n
}

// addRawScore 按当前倍率计分，收尾阶段不再计分
func (s *Session) addRawScore(raw float64, delivery bool) {
	if s.phase != PhasePlaying {
		return
	}
	scored := raw * float64(s.multiplier())
	s.score += scored
	if delivery {
		s.lastScoreT = 0
		s.lastScore = math.Floor(scored)
	}
}

// camera 返回跟随当前纬度的骑行摄像机
func (s *Session) camera() geom.Camera3D {
	cam := s.cam3d
	cam.Latitude = s.myLatitude
	return cam
}

func (s *Session) mailboxPos(m *Mailbox) geom.Vec3 {
	return m.Position(s.cfg.EarthRadius)
}

func (s *Session) findMailbox(id MailboxID) int {
	for i := range s.mailboxes {
		if s.mailboxes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) findTouch(id PointerID) int {
	for i, t := range s.touches {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Score 当前分数
func (s *Session) Score() float64 { return s.score }

// Lives 剩余生命
func (s *Session) Lives() int { return s.lives }

// TimeLeft 剩余时间（秒），收尾阶段可能为负
func (s *Session) TimeLeft() float64 { return s.timeLeft }

// Phase 当前阶段
func (s *Session) Phase() Phase { return s.phase }

// Difficulty 本局难度
func (s *Session) Difficulty() config.Difficulty { return s.diff }

// Config 本局配置
func (s *Session) Config() *config.Config { return s.cfg }
