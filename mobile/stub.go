//go:build !mobile

// 桌面构建时 mobile 包只剩这个文件，保证 go build ./... 和 go vet ./... 能通过。
// ebitenmobile 绑定在 mobile.go，需要 -tags mobile。
package mobile
