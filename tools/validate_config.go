// validate_config 检查调参配置文件能否通过加载和校验，并列出所有难度组合
//
// 用法：
//
//	go run ./tools [path/to/config.yaml]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/decker502/jugglemail/pkg/config"
)

func main() {
	path := config.DefaultConfigPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			fmt.Printf("❌ 配置校验失败: %v\n", err)
		} else {
			fmt.Printf("❌ 读取或解析失败: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("✅ YAML 格式正确: %s\n", path)
	fmt.Printf("✅ 邮箱颜色数量: %d\n", len(cfg.MailboxColors))
	fmt.Printf("✅ 房屋贴图数量: %d\n", cfg.HouseTextures)

	combos := 0
	for ts := range cfg.TimeScale {
		for gt := range cfg.GameTime {
			for lv := range cfg.Lives {
				d := cfg.Difficulty(config.DifficultySelection{TimeScale: ts, GameTime: gt, Lives: lv})
				fmt.Printf("   %s\n", d)
				combos++
			}
		}
	}
	fmt.Printf("✅ 难度组合: %d\n", combos)
}
