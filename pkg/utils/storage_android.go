//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// storageObjects gdata 在 Android 上不会自动创建的对象目录
var storageObjects = []string{"settings", "scores"}

// EnsureStorageDir 确保 Android 上 gdata 使用的对象目录存在并可写
// gdata 以 /data/data/{package}/ 作为根目录，但不会预先创建子目录，
// 因此必须在 gdata.Open 之前调用。
func EnsureStorageDir() error {
	root := GetStoragePath()
	if root == "" {
		return fmt.Errorf("failed to detect Android package name")
	}

	for _, obj := range storageObjects {
		dir := filepath.Join(root, obj)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	probe := filepath.Join(root, storageObjects[0], ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", root, err)
	}
	return os.Remove(probe)
}

// GetStoragePath 返回 Android 应用私有目录，包名取自 /proc/self/cmdline
func GetStoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	// cmdline 以 NUL 分隔参数，第一个参数即包名
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	app := string(bytes.TrimSpace(data))
	if app == "" {
		return ""
	}
	return filepath.Join("/data/data", app)
}
