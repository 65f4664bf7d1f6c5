// Package utils 提供与平台相关的通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerEventKind 指针事件类型
type PointerEventKind int

const (
	// PointerDown 按下
	PointerDown PointerEventKind = iota
	// PointerMove 移动
	PointerMove
	// PointerUp 松开
	PointerUp
)

func (k PointerEventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	}
	return "unknown"
}

// PointerEvent 一帧内的一个指针事件
// Touch 为 false 时表示主指针（鼠标，或被当作鼠标按键的键盘按键）
type PointerEvent struct {
	Kind  PointerEventKind
	Touch bool
	ID    int // 触摸编号，主指针恒为 0
	X, Y  float64
}

// reservedKeys 有专门用途、不会被当作主指针按键的键
var reservedKeys = map[ebiten.Key]bool{
	ebiten.KeyR:         true, // 重开
	ebiten.KeyEscape:    true, // 返回
	ebiten.KeyBackspace: true,
	ebiten.KeyEnter:     true,
	ebiten.KeyF11:       true, // 全屏
}

// IsReservedKey 判断按键是否有专门用途
func IsReservedKey(key ebiten.Key) bool {
	return reservedKeys[key]
}

// PrimaryButton 合并鼠标左键和任意非保留键盘按键的按下状态
//
// 多个来源同时按下时，只有第一个按下产生 Down，
// 最后一个松开产生 Up，中间的按键变化被吸收。
type PrimaryButton struct {
	held int
}

// Press 一个来源按下，返回是否应当发出 Down
func (b *PrimaryButton) Press() bool {
	b.held++
	return b.held == 1
}

// Release 一个来源松开，返回是否应当发出 Up
func (b *PrimaryButton) Release() bool {
	if b.held == 0 {
		return false
	}
	b.held--
	return b.held == 0
}

// Held 是否有任意来源处于按下状态
func (b *PrimaryButton) Held() bool {
	return b.held > 0
}

// Reset 清空按下计数（例如窗口失去焦点后）
func (b *PrimaryButton) Reset() {
	b.held = 0
}

// PointerTracker 把 Ebitengine 的鼠标、触摸和键盘状态转换为指针事件
type PointerTracker struct {
	primary     PrimaryButton
	cursorX     int
	cursorY     int
	cursorKnown bool
	touches     map[ebiten.TouchID][2]int
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{
		touches: make(map[ebiten.TouchID][2]int),
	}
}

// Poll 读取本帧输入，把事件追加到 dst 后返回
//
// 事件顺序：主指针移动、主指针按下/松开、触摸按下、触摸移动、触摸松开。
// 必须在 ebiten.Game.Update 中每帧调用一次。
func (pt *PointerTracker) Poll(dst []PointerEvent) []PointerEvent {
	x, y := ebiten.CursorPosition()
	if !pt.cursorKnown || x != pt.cursorX || y != pt.cursorY {
		pt.cursorX, pt.cursorY, pt.cursorKnown = x, y, true
		dst = append(dst, PointerEvent{Kind: PointerMove, X: float64(x), Y: float64(y)})
	}

	presses, releases := 0, 0
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		presses++
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		releases++
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if !IsReservedKey(k) {
			presses++
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		if !IsReservedKey(k) {
			releases++
		}
	}
	for ; presses > 0; presses-- {
		if pt.primary.Press() {
			dst = append(dst, PointerEvent{Kind: PointerDown, X: float64(x), Y: float64(y)})
		}
	}
	for ; releases > 0; releases-- {
		if pt.primary.Release() {
			dst = append(dst, PointerEvent{Kind: PointerUp, X: float64(x), Y: float64(y)})
		}
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		pt.touches[id] = [2]int{tx, ty}
		dst = append(dst, PointerEvent{Kind: PointerDown, Touch: true, ID: int(id), X: float64(tx), Y: float64(ty)})
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		if last, ok := pt.touches[id]; ok && last == [2]int{tx, ty} {
			continue
		}
		pt.touches[id] = [2]int{tx, ty}
		dst = append(dst, PointerEvent{Kind: PointerMove, Touch: true, ID: int(id), X: float64(tx), Y: float64(ty)})
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		delete(pt.touches, id)
		dst = append(dst, PointerEvent{Kind: PointerUp, Touch: true, ID: int(id), X: float64(tx), Y: float64(ty)})
	}

	return dst
}

// Reset 丢弃所有按下状态（切换场景时调用）
func (pt *PointerTracker) Reset() {
	pt.primary.Reset()
	for id := range pt.touches {
		delete(pt.touches, id)
	}
}
