//go:build !mobile

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/jugglemail/pkg/game"
)

func TestDesktopFullscreen(t *testing.T) {
	t.Setenv("JUGGLEMAIL_MOBILE_EMULATE", "")
	s := game.DefaultSettings()
	assert.False(t, desktopFullscreen(s))

	s.Fullscreen = true
	assert.True(t, desktopFullscreen(s))

	// 模拟移动端时忽略保存的全屏设置
	t.Setenv("JUGGLEMAIL_MOBILE_EMULATE", "1")
	assert.False(t, desktopFullscreen(s))
}
