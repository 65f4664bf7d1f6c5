package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
)

// constRandom 总是返回同一个值的随机源
type constRandom float64

func (r constRandom) Float64() float64 { return float64(r) }
func (r constRandom) Intn(n int) int   { return int(float64(r) * float64(n)) }

// recorder 记录事件的监听器
type recorder struct {
	events []Event
	closed bool
}

func (r *recorder) OnEvent(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) count(ev Event) int {
	n := 0
	for _, e := range r.events {
		if e == ev {
			n++
		}
	}
	return n
}

func testConfig() *config.Config {
	return &config.Config{
		Gravity:           12,
		ThrowSpeed:        6.5,
		ThrowAngle:        10,
		ThrowTargetHeight: 4,
		ItemScale:         0.45,
		ItemAspect:        1.5,
		ItemMaxW:          3,
		HandRadius:        0.3,

		UIFov:        10,
		Fov:          60,
		CameraRot:    15,
		CameraHeight: 1.5,
		CameraNear:   0.1,

		EarthRadius:              10,
		RideSpeed:                0.12,
		RoadWidth:                1,
		MailboxSize:              0.6,
		DistanceBetweenMailboxes: 6,
		DoubleMailboxProbability: 0.2,
		MailboxColors: []config.Color{
			{R: 1, A: 1},
			{G: 1, A: 1},
			{B: 1, A: 1},
		},
		HouseOffset:           2,
		DistanceBetweenHouses: 8,
		HouseTextures:         3,
		SpawnDistance:         60,
		DespawnDistance:       10,

		MaxThrowDistance: 8,
		ThrowTime:        0.5,
		ThrowHeight:      1,
		ItemThrowMaxW:    10,

		DeliverScore: 10,

		ThrowAnimationTime: 0.2,
		ErrorAnimationTime: 0.3,

		ParticleCount:    5,
		ParticleSpeed:    2,
		ParticleLifetime: 0.5,

		TimeScale: []float64{1},
		GameTime:  []float64{60},
		Lives:     []int{3},
	}
}

var defaultDiff = config.Difficulty{TimeScale: 1, GameTime: 60, Lives: 3}

func newTestSession(t *testing.T, cfg *config.Config, diff config.Difficulty) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(cfg, diff, WithRandom(constRandom(0.5)), WithListener(rec), WithScreenSize(800, 600))
	return s, rec
}

// uiPixel UI 平面坐标对应的屏幕像素
func uiPixel(s *Session, world geom.Vec2) geom.Vec2 {
	return s.cam2d.WorldToScreen(s.screen, world)
}

// bagPixel 邮包中心的屏幕像素
func bagPixel(s *Session) geom.Vec2 {
	return uiPixel(s, s.bag.Center())
}

// placeMailbox 清空邮箱带，只放置一个指定邮箱
func placeMailbox(s *Session, m Mailbox) {
	s.mailboxes = []Mailbox{m}
}

// mailboxPixel 计算正好悬停在邮箱中央的屏幕像素
func mailboxPixel(t *testing.T, s *Session, id MailboxID) geom.Vec2 {
	t.Helper()
	idx := s.findMailbox(id)
	require.GreaterOrEqual(t, idx, 0, "mailbox %d not found", id)

	cam := s.camera()
	up := geom.V3(1, 0, 0).Cross(cam.Dir()).Normalize()
	target := s.mailboxPos(&s.mailboxes[idx]).Add(up.Scale(s.cfg.MailboxSize / 2))
	pixel, ok := cam.Project(s.screen, target)
	require.True(t, ok, "mailbox %d behind camera", id)
	return pixel
}

// pickFromBag 用触点从邮包拿一个新信封
func pickFromBag(t *testing.T, s *Session, id PointerID) *Item {
	t.Helper()
	s.TouchStart(id, bagPixel(s))
	idx := s.findTouch(id)
	require.GreaterOrEqual(t, idx, 0)
	require.NotNil(t, s.touches[idx].Holding, "touch %s should hold an item", id)
	return s.touches[idx].Holding
}
