package scenes

import (
	"github.com/decker502/jugglemail/pkg/game"
	"github.com/decker502/jugglemail/pkg/round"
)

// soundPlayer 回合音效需要的播放接口，AudioManager 实现了它
type soundPlayer interface {
	PlaySound(soundID string) bool
	PlayMusic(musicID string) bool
	StopMusic()
	StopAll()
}

// eventSounds 回合事件对应的音效
var eventSounds = map[round.Event]string{
	round.EventPick:      game.SoundPick,
	round.EventMiss:      game.SoundMiss,
	round.EventJuggle:    game.SoundJuggle,
	round.EventThrow:     game.SoundThrow,
	round.EventDeliver:   game.SoundDeliver,
	round.EventExplosion: game.SoundExplosion,
	round.EventLose:      game.SoundLose,
	round.EventTimeUp:    game.SoundTimeUp,
}

// soundListener 把回合事件转换为音效
// 回合结束（时间到或生命耗尽）时停止背景音乐；Close 时停止所有声音
type soundListener struct {
	audio soundPlayer
}

func newSoundListener(audio soundPlayer) *soundListener {
	return &soundListener{audio: audio}
}

// OnEvent 实现 round.Listener
func (l *soundListener) OnEvent(ev round.Event) {
	if l.audio == nil {
		return
	}
	switch ev {
	case round.EventLose, round.EventTimeUp:
		l.audio.StopMusic()
	}
	if id, ok := eventSounds[ev]; ok {
		l.audio.PlaySound(id)
	}
}

func (l *soundListener) playMusic(musicID string) {
	if l.audio != nil {
		l.audio.PlayMusic(musicID)
	}
}

// Close 停止音乐和仍在播放的音效
func (l *soundListener) Close() error {
	if l.audio != nil {
		l.audio.StopAll()
	}
	return nil
}
