// Package audio 合成游戏使用的全部音效与背景音乐
//
// 游戏不携带任何音频文件：每个音效由若干音符在内存中合成为
// 16-bit 小端立体声 PCM，直接交给 Ebitengine 的 audio.Player 播放。
package audio

import (
	"fmt"
	"io"
	"math"
)

// Wave 振荡器波形
type Wave int

const (
	// WaveSine 正弦波
	WaveSine Wave = iota
	// WaveSquare 方波
	WaveSquare
	// WaveTriangle 三角波
	WaveTriangle
	// WaveNoise 白噪声（用于爆炸）
	WaveNoise
)

// Note 一个音符
type Note struct {
	Freq     float64 // 起始频率（Hz），0 表示休止
	FreqEnd  float64 // 结束频率（Hz），0 表示不滑音
	Duration float64 // 时长（秒）
	Wave     Wave
	Gain     float64 // 0 ~ 1，0 视为 1
}

// attack/release 每个音符首尾的淡入淡出时长（秒），避免爆音
const (
	attack  = 0.005
	release = 0.03
)

// Stream 合成好的 PCM 数据流
// 实现 io.ReadSeeker，可以直接交给 audio.NewInfiniteLoop 循环播放
type Stream struct {
	data       []byte // 16-bit 小端立体声
	sampleRate int
	offset     int64
}

// Synthesize 把音符序列合成为 PCM 流
//
// 参数：
//   - sampleRate: 采样率（Hz），必须与 audio.Context 一致
//   - notes: 按顺序播放的音符
//
// 返回：
//   - *Stream: 合成结果
//   - error: 采样率非法时返回错误
func Synthesize(sampleRate int, notes []Note) (*Stream, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	total := 0
	for _, n := range notes {
		total += int(n.Duration * float64(sampleRate))
	}
	data := make([]byte, 0, total*4)

	// 线性同余噪声，保证同一音效每次合成结果一致
	seed := uint32(22222)
	for _, n := range notes {
		count := int(n.Duration * float64(sampleRate))
		gain := n.Gain
		if gain == 0 {
			gain = 1
		}
		phase := 0.0
		for i := 0; i < count; i++ {
			t := float64(i) / float64(sampleRate)
			freq := n.Freq
			if n.FreqEnd > 0 && count > 1 {
				freq += (n.FreqEnd - n.Freq) * float64(i) / float64(count-1)
			}
			phase += freq / float64(sampleRate)
			phase -= math.Floor(phase)

			var v float64
			if n.Freq > 0 {
				switch n.Wave {
				case WaveSine:
					v = math.Sin(2 * math.Pi * phase)
				case WaveSquare:
					v = 1
					if phase >= 0.5 {
						v = -1
					}
					v *= 0.5
				case WaveTriangle:
					v = 4*math.Abs(phase-0.5) - 1
				case WaveNoise:
					seed = seed*1664525 + 1013904223
					v = float64(seed>>16)/32768 - 1
				}
			}
			v *= gain * envelope(t, n.Duration)

			s := int16(clamp(v) * math.MaxInt16)
			// 左右声道相同
			data = append(data, byte(s), byte(s>>8), byte(s), byte(s>>8))
		}
	}

	return &Stream{data: data, sampleRate: sampleRate}, nil
}

// envelope 简单的 AR 包络
func envelope(t, duration float64) float64 {
	if t < attack {
		return t / attack
	}
	if rest := duration - t; rest < release {
		return math.Max(rest/release, 0)
	}
	return 1
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Read 实现 io.Reader
func (s *Stream) Read(p []byte) (n int, err error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}

	n = copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek 实现 io.Seeker
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = s.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position: %d", newOffset)
	}

	s.offset = newOffset
	return newOffset, nil
}

// Length PCM 数据总字节数（audio.NewInfiniteLoop 需要）
func (s *Stream) Length() int64 {
	return int64(len(s.data))
}

// Bytes 返回完整的 PCM 数据
func (s *Stream) Bytes() []byte {
	return s.data
}

// SampleRate 采样率（Hz）
func (s *Stream) SampleRate() int {
	return s.sampleRate
}
