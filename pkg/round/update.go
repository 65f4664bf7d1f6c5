package round

import (
	"log"
	"math"
)

// Step 推进一帧
//
// 回合状态机：Playing → Ending → Over。
// 倒计时小于 0 或生命归零时进入 Ending：强制松开所有触点，
// 之后结束计时器以 dt/3 的速度增长，超过 1 时进入 Over。
//
// 参数：
//   - dt: 距上一帧的真实时间（秒）
func (s *Session) Step(dt float64) {
	if s.phase == PhaseOver {
		return
	}

	s.realTime += dt
	s.lastScoreT += dt

	if s.phase == PhasePlaying && (s.timeLeft < 0 || s.lives == 0) {
		s.phase = PhaseEnding
		if s.lives != 0 {
			s.emit(EventTimeUp)
		}
		log.Printf("[Round] Round ending: score=%.0f lives=%d", s.score, s.lives)
	}
	if s.phase == PhaseEnding {
		if !s.released {
			s.releaseAll()
		}
		s.endTimer += dt / endDuration
		if s.endTimer > 1 {
			s.phase = PhaseOver
			s.emit(EventRoundOver)
			log.Printf("[Round] Round over: final score %.0f", s.score)
			return
		}
	}

	s.addRawScore(dt*s.cfg.JugglingScoreMultiplier, false)
	s.timeLeft -= dt

	s.updateTouches(dt)
	s.updateParticles(dt)

	dt *= s.diff.TimeScale

	s.updateJugglingItems(dt)
	s.myLatitude += s.cfg.RideSpeed * dt
	s.updateMailboxes()
	s.updateHouses()
	s.updateThrownItems(dt)
}

// releaseAll 进入收尾时把每个触点当作在当前位置松开，随后清空触点
func (s *Session) releaseAll() {
	s.released = true
	for _, t := range s.touches {
		s.release(t)
	}
	s.touches = nil
}

// updateTouches 推进手部动画计时器，并清除移除动画已结束的触摸点
// 主指针（鼠标）的记录始终保留
func (s *Session) updateTouches(dt float64) {
	for _, t := range s.touches {
		if t.RemoveTime != nil {
			*t.RemoveTime = math.Min(*t.RemoveTime+dt/s.cfg.ThrowAnimationTime, 1)
		}
		t.ThrowAnimationTime = math.Min(t.ThrowAnimationTime+dt/s.cfg.ThrowAnimationTime, 1)
		t.ErrorAnimationTime = math.Min(t.ErrorAnimationTime+dt/s.cfg.ErrorAnimationTime, 1)
		if t.Holding != nil {
			t.ThrowAnimationTime = 0
			t.ErrorAnimationTime = 1
		}
	}

	kept := s.touches[:0]
	for _, t := range s.touches {
		if t.ID.IsPrimary() || t.RemoveTime == nil || *t.RemoveTime < 1 {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.touches); i++ {
		s.touches[i] = nil
	}
	s.touches = kept
}

// updateThrownItems 推进飞行中的信封，并在飞行时间到达时结算
//
// 目标邮箱仍存在则投递成功：按倍率加分、移除邮箱、炸出得分粒子；
// 目标已消失（被先到的信封命中或已落到身后被回收）则扣一条命。
// 每个信封恰好产生其中一种结果。
func (s *Session) updateThrownItems(dt float64) {
	for i := range s.thrown {
		s.thrown[i].T += dt
		s.thrown[i].Rot += s.thrown[i].W * dt
	}

	var landed []ThrownItem
	kept := s.thrown[:0]
	for _, ti := range s.thrown {
		if ti.T < s.cfg.ThrowTime {
			kept = append(kept, ti)
		} else {
			landed = append(landed, ti)
		}
	}
	s.thrown = kept

	for _, ti := range landed {
		idx := s.findMailbox(ti.TargetID)
		if idx >= 0 && s.cfg.RequireColorMatch && s.mailboxes[idx].Color != ti.Color {
			idx = -1
		}
		if idx >= 0 {
			s.mailboxes = append(s.mailboxes[:idx], s.mailboxes[idx+1:]...)
			s.particles3D = append(s.particles3D, s.spawnParticles(ti.To, s.cfg.ScoreColor)...)
			s.emit(EventDeliver)
			s.addRawScore(s.cfg.DeliverScore, true)
		} else {
			s.particles3D = append(s.particles3D, s.spawnParticles(ti.To, s.cfg.ExplosionColor)...)
			s.LoseLife()
		}
	}
}
