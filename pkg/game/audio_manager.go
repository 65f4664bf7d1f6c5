package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	synth "github.com/decker502/jugglemail/internal/audio"
)

// SampleRate 全局音频采样率
const SampleRate = 48000

// 音效资源ID
const (
	SoundPick      = "SOUND_PICK"
	SoundMiss      = "SOUND_MISS"
	SoundJuggle    = "SOUND_JUGGLE"
	SoundThrow     = "SOUND_THROW"
	SoundDeliver   = "SOUND_DELIVER"
	SoundExplosion = "SOUND_EXPLOSION"
	SoundLose      = "SOUND_LOSE"
	SoundTimeUp    = "SOUND_TIMEUP"
	SoundClick     = "SOUND_CLICK"
)

// 背景音乐资源ID
const (
	MusicRide = "MUSIC_RIDE"
)

// soundBank 每个资源ID对应的音符序列
var soundBank = map[string][]synth.Note{
	SoundPick:      {{Freq: 660, FreqEnd: 880, Duration: 0.06, Wave: synth.WaveSine, Gain: 0.6}},
	SoundMiss:      {{Freq: 180, FreqEnd: 140, Duration: 0.12, Wave: synth.WaveSquare, Gain: 0.4}},
	SoundJuggle:    {{Freq: 440, FreqEnd: 620, Duration: 0.08, Wave: synth.WaveTriangle, Gain: 0.6}},
	SoundThrow:     {{Freq: 900, FreqEnd: 300, Duration: 0.18, Wave: synth.WaveSine, Gain: 0.5}},
	SoundDeliver:   {{Freq: 784, Duration: 0.07, Wave: synth.WaveSquare, Gain: 0.4}, {Freq: 1047, Duration: 0.14, Wave: synth.WaveSquare, Gain: 0.4}},
	SoundExplosion: {{Freq: 1, Duration: 0.35, Wave: synth.WaveNoise, Gain: 0.7}},
	SoundLose: {
		{Freq: 392, Duration: 0.25, Wave: synth.WaveTriangle},
		{Freq: 330, Duration: 0.25, Wave: synth.WaveTriangle},
		{Freq: 262, Duration: 0.6, Wave: synth.WaveTriangle},
	},
	SoundTimeUp: {
		{Freq: 880, Duration: 0.12, Wave: synth.WaveSquare, Gain: 0.4},
		{Duration: 0.06},
		{Freq: 880, Duration: 0.12, Wave: synth.WaveSquare, Gain: 0.4},
		{Duration: 0.06},
		{Freq: 1320, Duration: 0.4, Wave: synth.WaveSquare, Gain: 0.4},
	},
	SoundClick: {{Freq: 1200, Duration: 0.03, Wave: synth.WaveSquare, Gain: 0.3}},
}

// musicBank 循环播放的背景音乐
var musicBank = map[string][]synth.Note{
	MusicRide: rideTheme(),
}

// rideTheme 一段简单的 I-V-vi-IV 琶音
func rideTheme() []synth.Note {
	chords := [][]float64{
		{262, 330, 392, 523},
		{196, 247, 294, 392},
		{220, 262, 330, 440},
		{175, 220, 262, 349},
	}
	var notes []synth.Note
	for _, chord := range chords {
		for rep := 0; rep < 2; rep++ {
			for _, f := range chord {
				notes = append(notes, synth.Note{Freq: f, Duration: 0.15, Wave: synth.WaveTriangle, Gain: 0.35})
			}
		}
	}
	return notes
}

// AudioManager 音频管理器
// 职责：
//   - 统一管理游戏中所有音效和背景音乐的播放
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 按资源ID播放，首次使用时合成并缓存
//
// audioContext 为 nil 时处于静音模式，所有播放调用都返回 false。
type AudioManager struct {
	audioContext    *audio.Context
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置，可为 nil）
	soundData       map[string][]byte        // 音效 PCM 缓存（资源ID -> 数据）
	soundPlayers    map[string]*audio.Player // 正在使用的音效播放器
	musicPlayers    map[string]*audio.Player // 背景音乐播放器缓存（资源ID -> 播放器）
	currentMusic    *audio.Player            // 当前播放的背景音乐
	currentMusicID  string                   // 当前播放的背景音乐ID
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: Ebitengine 音频上下文，可为 nil（静音模式）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		audioContext:    ctx,
		settingsManager: sm,
		soundData:       make(map[string][]byte),
		soundPlayers:    make(map[string]*audio.Player),
		musicPlayers:    make(map[string]*audio.Player),
	}
}

// PlaySound 播放音效
// 音效使用 SoundVolume 设置控制音量，单次播放后停止
//
// 参数：
//   - soundID: 音效资源ID（如 SoundPick、SoundDeliver）
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// StopSound 停止指定音效
func (am *AudioManager) StopSound(soundID string) {
	if player, ok := am.soundPlayers[soundID]; ok {
		player.Pause()
	}
}

// PlayMusic 播放背景音乐
// 背景音乐使用 MusicVolume 设置控制音量，无限循环
// 同一时间只能播放一首背景音乐
//
// 参数：
//   - musicID: 音乐资源ID（如 MusicRide）
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlayMusic(musicID string) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}

	if am.currentMusicID == musicID && am.currentMusic != nil && am.currentMusic.IsPlaying() {
		return true
	}

	am.StopMusic()

	player := am.getMusicPlayer(musicID)
	if player == nil {
		return false
	}

	volume := am.getMusicVolume()
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind music %s: %v", musicID, err)
	}
	player.Play()

	am.currentMusic = player
	am.currentMusicID = musicID

	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", musicID, volume)
	return true
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
		am.currentMusic = nil
		am.currentMusicID = ""
	}
}

// StopAll 停止背景音乐和所有音效
// 场景关闭时调用，保证离开场景后不再有声音
func (am *AudioManager) StopAll() {
	am.StopMusic()
	for _, player := range am.soundPlayers {
		player.Pause()
	}
}

// CurrentMusic 当前播放的背景音乐ID，没有时为空字符串
func (am *AudioManager) CurrentMusic() string {
	return am.currentMusicID
}

// SetMusicVolume 设置音乐音量
// 此方法立即应用到当前播放的背景音乐
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	for _, player := range am.musicPlayers {
		player.SetVolume(am.getMusicVolume())
	}
}

// SetSoundVolume 设置音效音量
// 此方法会影响后续播放的所有音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(am.getSoundVolume())
	}
}

// GetMusicVolume 获取当前音乐音量
func (am *AudioManager) GetMusicVolume() float64 {
	return am.getMusicVolume()
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// soundPCM 返回音效的 PCM 数据，首次使用时合成
func (am *AudioManager) soundPCM(soundID string) []byte {
	if data, ok := am.soundData[soundID]; ok {
		return data
	}
	notes, ok := soundBank[soundID]
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", soundID)
		return nil
	}
	stream, err := synth.Synthesize(SampleRate, notes)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to synthesize sound %s: %v", soundID, err)
		return nil
	}
	am.soundData[soundID] = stream.Bytes()
	return stream.Bytes()
}

// getSoundPlayer 获取或创建音效播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.soundPlayers[soundID]; exists {
		return player
	}
	if am.audioContext == nil {
		return nil
	}
	data := am.soundPCM(soundID)
	if data == nil {
		return nil
	}
	player := am.audioContext.NewPlayerFromBytes(data)
	am.soundPlayers[soundID] = player
	return player
}

// getMusicPlayer 获取或创建循环播放的音乐播放器
func (am *AudioManager) getMusicPlayer(musicID string) *audio.Player {
	if player, exists := am.musicPlayers[musicID]; exists {
		return player
	}
	if am.audioContext == nil {
		return nil
	}
	notes, ok := musicBank[musicID]
	if !ok {
		log.Printf("[AudioManager] Warning: Music not found: %s", musicID)
		return nil
	}
	stream, err := synth.Synthesize(SampleRate, notes)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to synthesize music %s: %v", musicID, err)
		return nil
	}
	player, err := am.audioContext.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to create music player %s: %v", musicID, err)
		return nil
	}
	am.musicPlayers[musicID] = player
	return player
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return 0.7 // 默认值
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}

// PreloadSounds 预合成音效，避免首次播放时的延迟
func (am *AudioManager) PreloadSounds(soundIDs []string) {
	for _, soundID := range soundIDs {
		am.soundPCM(soundID)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(soundIDs))
}
