//go:build mobile

package utils

// IsMobile ebitenmobile 构建（-tags mobile）下恒为 true：
// 不支持全屏切换，输入只有触摸
func IsMobile() bool {
	return true
}
