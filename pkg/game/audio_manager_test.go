package game

import (
	"testing"

	synth "github.com/decker502/jugglemail/internal/audio"
)

// TestAudioManagerSilentMode 测试没有音频上下文时所有调用都安全返回
func TestAudioManagerSilentMode(t *testing.T) {
	am := NewAudioManager(nil, nil)

	if am.PlaySound(SoundPick) {
		t.Error("PlaySound without audio context should return false")
	}
	if am.PlayMusic(MusicRide) {
		t.Error("PlayMusic without audio context should return false")
	}
	if am.CurrentMusic() != "" {
		t.Errorf("CurrentMusic: got %q, want empty", am.CurrentMusic())
	}

	am.StopSound(SoundPick)
	am.StopAll() // Should not panic
}

// TestAudioManagerRespectsToggles 测试关闭开关后不会尝试播放
func TestAudioManagerRespectsToggles(t *testing.T) {
	sm, _ := NewSettingsManager(nil)
	sm.SetSoundEnabled(false)
	sm.SetMusicEnabled(false)
	am := NewAudioManager(nil, sm)

	if am.PlaySound(SoundDeliver) {
		t.Error("disabled sound should not play")
	}
	if am.PlayMusic(MusicRide) {
		t.Error("disabled music should not play")
	}
}

// TestAudioManagerVolumes 测试音量读写经过 SettingsManager
func TestAudioManagerVolumes(t *testing.T) {
	am := NewAudioManager(nil, nil)
	if am.GetMusicVolume() != 0.7 || am.GetSoundVolume() != 0.8 {
		t.Errorf("default volumes: got (%v, %v), want (0.7, 0.8)", am.GetMusicVolume(), am.GetSoundVolume())
	}

	sm, _ := NewSettingsManager(nil)
	am = NewAudioManager(nil, sm)
	am.SetMusicVolume(0.25)
	am.SetSoundVolume(2)
	if am.GetMusicVolume() != 0.25 {
		t.Errorf("music volume: got %v, want 0.25", am.GetMusicVolume())
	}
	if am.GetSoundVolume() != 1 {
		t.Errorf("sound volume should be clamped to 1, got %v", am.GetSoundVolume())
	}
}

// TestSoundBankSynthesizes 测试每个音效都能合成出非空数据
func TestSoundBankSynthesizes(t *testing.T) {
	am := NewAudioManager(nil, nil)

	ids := []string{SoundPick, SoundMiss, SoundJuggle, SoundThrow, SoundDeliver,
		SoundExplosion, SoundLose, SoundTimeUp, SoundClick}
	am.PreloadSounds(ids)

	for _, id := range ids {
		data := am.soundData[id]
		if len(data) == 0 {
			t.Errorf("%s: no PCM data", id)
		}
		if len(data)%4 != 0 {
			t.Errorf("%s: %d bytes is not whole stereo frames", id, len(data))
		}
	}

	if am.soundPCM("SOUND_UNKNOWN") != nil {
		t.Error("unknown sound should yield nil")
	}
}

// TestRideThemeLoopLength 测试背景音乐长度
func TestRideThemeLoopLength(t *testing.T) {
	stream, err := synth.Synthesize(SampleRate, musicBank[MusicRide])
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	// 4 个和弦 × 2 遍 × 4 个音 × 0.15 秒
	want := int64(32 * int(0.15*SampleRate) * 4)
	if stream.Length() != want {
		t.Errorf("theme length: got %d, want %d", stream.Length(), want)
	}
}
