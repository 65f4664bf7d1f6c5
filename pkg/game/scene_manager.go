package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages the game's high-level state with a stack of scenes.
// Only the top scene's Update and Draw methods are called at any given time.
//
// 被弹出或替换的场景如果实现了 Closer，会立即被关闭。
// 栈被弹空后 Empty() 返回 true，由 App 结束游戏循环。
type SceneManager struct {
	stack []Scene
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use Push to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// Push 把场景压到栈顶，原栈顶场景保留（返回时继续运行）
func (sm *SceneManager) Push(scene Scene) {
	if scene == nil {
		return
	}
	sm.stack = append(sm.stack, scene)
	log.Printf("[SceneManager] Push scene %T (depth %d)", scene, len(sm.stack))
}

// Pop 关闭并移除栈顶场景
//
// 返回：
//   - bool: 栈为空时返回 false
func (sm *SceneManager) Pop() bool {
	n := len(sm.stack)
	if n == 0 {
		return false
	}
	top := sm.stack[n-1]
	sm.stack[n-1] = nil
	sm.stack = sm.stack[:n-1]
	closeScene(top)
	log.Printf("[SceneManager] Pop scene %T (depth %d)", top, len(sm.stack))
	return true
}

// SwitchTo replaces the top scene with the provided scene.
// 被替换的场景会被关闭；栈为空时等同于 Push。
func (sm *SceneManager) SwitchTo(scene Scene) {
	if scene == nil {
		return
	}
	n := len(sm.stack)
	if n == 0 {
		sm.Push(scene)
		return
	}
	old := sm.stack[n-1]
	sm.stack[n-1] = scene
	closeScene(old)
	log.Printf("[SceneManager] Switch %T -> %T", old, scene)
}

// Close 关闭栈中全部场景（从栈顶开始）
func (sm *SceneManager) Close() {
	for sm.Pop() {
	}
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 栈顶场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	if len(sm.stack) == 0 {
		return nil
	}
	return sm.stack[len(sm.stack)-1]
}

// Depth 返回栈深度
func (sm *SceneManager) Depth() int {
	return len(sm.stack)
}

// Empty 栈是否为空
func (sm *SceneManager) Empty() bool {
	return len(sm.stack) == 0
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if scene := sm.GetCurrentScene(); scene != nil {
		scene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if scene := sm.GetCurrentScene(); scene != nil {
		scene.Draw(screen)
	}
}

func closeScene(scene Scene) {
	c, ok := scene.(Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("[SceneManager] Warning: failed to close scene %T: %v", scene, err)
	}
}
