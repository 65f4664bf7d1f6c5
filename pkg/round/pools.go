package round

import (
	"github.com/decker502/jugglemail/pkg/config"
	"github.com/decker502/jugglemail/pkg/geom"
)

// updateMailboxes 维护玩家前方一段连续的邮箱带
//
// 先裁掉落在玩家身后超过 despawn_distance 的邮箱，再在前沿不断追加新的一排，
// 直到最后一个邮箱越过 my_latitude + spawn_distance。
// 邮箱只在尾部追加、在头部裁剪，因此始终按纬度非递减排列。
func (s *Session) updateMailboxes() {
	despawn := s.myLatitude - geom.Radians(s.cfg.DespawnDistance)
	kept := s.mailboxes[:0]
	for _, m := range s.mailboxes {
		if m.Latitude > despawn {
			kept = append(kept, m)
		}
	}
	s.mailboxes = kept

	frontier := s.myLatitude + geom.Radians(s.cfg.SpawnDistance)
	step := geom.Radians(s.cfg.DistanceBetweenMailboxes)
	for len(s.mailboxes) == 0 || s.mailboxes[len(s.mailboxes)-1].Latitude < frontier {
		last := s.myLatitude
		if n := len(s.mailboxes); n > 0 {
			last = s.mailboxes[n-1].Latitude
		}

		var left, right bool
		switch {
		case randBool(s.rng, s.cfg.DoubleMailboxProbability):
			left, right = true, true
		case randBool(s.rng, 0.5):
			left = true
		default:
			right = true
		}

		for _, lane := range []struct {
			side  float64
			spawn bool
		}{{-1, left}, {1, right}} {
			if !lane.spawn {
				continue
			}
			s.mailboxes = append(s.mailboxes, Mailbox{
				ID:       s.nextID,
				X:        lane.side * (s.cfg.RoadWidth + s.cfg.MailboxSize/2),
				Latitude: last + step,
				Color:    s.rng.Intn(len(s.cfg.MailboxColors)),
			})
			s.nextID++
		}
	}
}

// updateHouses 房屋使用与邮箱相同的前沿规则，每排左右各一栋
func (s *Session) updateHouses() {
	despawn := s.myLatitude - geom.Radians(s.cfg.DespawnDistance)
	kept := s.houses[:0]
	for _, h := range s.houses {
		if h.Latitude > despawn {
			kept = append(kept, h)
		}
	}
	s.houses = kept

	frontier := s.myLatitude + geom.Radians(s.cfg.SpawnDistance)
	step := geom.Radians(s.cfg.DistanceBetweenHouses)
	for len(s.houses) == 0 || s.houses[len(s.houses)-1].Latitude < frontier {
		last := s.myLatitude
		if n := len(s.houses); n > 0 {
			last = s.houses[n-1].Latitude
		}
		for _, side := range []float64{-1, 1} {
			s.houses = append(s.houses, House{
				X:        side * (s.cfg.RoadWidth + s.cfg.HouseOffset),
				Latitude: last + step,
				Texture:  s.rng.Intn(s.cfg.HouseTextures),
			})
		}
	}
}

// spawnParticles 在 pos 处生成一簇粒子，速度方向各分量在 [-1, 1) 内随机
func (s *Session) spawnParticles(pos geom.Vec3, color config.Color) []Particle {
	particles := make([]Particle, 0, s.cfg.ParticleCount)
	for i := 0; i < s.cfg.ParticleCount; i++ {
		vel := geom.V3(
			randRange(s.rng, -1, 1),
			randRange(s.rng, -1, 1),
			randRange(s.rng, -1, 1),
		).Scale(s.cfg.ParticleSpeed)
		particles = append(particles, Particle{
			Pos:   pos,
			Vel:   vel,
			Color: color,
		})
	}
	return particles
}

// updateParticles 推进粒子并清除寿命走完的粒子
// UI 粒子位于屏幕平面，以 3 倍速度扩散
func (s *Session) updateParticles(dt float64) {
	s.particles3D = advanceParticles(s.particles3D, dt, 1, s.cfg.ParticleLifetime)
	s.particlesUI = advanceParticles(s.particlesUI, dt, 3, s.cfg.ParticleLifetime)
}

func advanceParticles(ps []Particle, dt, speed, lifetime float64) []Particle {
	kept := ps[:0]
	for _, p := range ps {
		p.Pos = p.Pos.Add(p.Vel.Scale(speed * dt))
		p.T += dt / lifetime
		if p.T < 1 {
			kept = append(kept, p)
		}
	}
	return kept
}

// updateJugglingItems 抛接物理：恒定重力、匀速旋转
// 落到邮包底边以下的物品被移除，每个物品扣一条命并在落点炸出粒子
func (s *Session) updateJugglingItems(dt float64) {
	for i := range s.items {
		it := &s.items[i]
		it.Vel.Y -= s.cfg.Gravity * dt
		it.Pos = it.Pos.Add(it.Vel.Scale(dt))
		it.Rot += it.W * dt
	}

	threshold := s.bag.Min.Y
	var dropped []geom.Vec2
	kept := s.items[:0]
	for _, it := range s.items {
		if it.Pos.Y > threshold {
			kept = append(kept, it)
		} else {
			dropped = append(dropped, it.Pos)
		}
	}
	s.items = kept

	for _, pos := range dropped {
		s.particlesUI = append(s.particlesUI, s.spawnParticles(pos.Extend(0), s.cfg.ExplosionColor)...)
		s.LoseLife()
	}
}
