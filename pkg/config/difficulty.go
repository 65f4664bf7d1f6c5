package config

import "fmt"

// Difficulty 难度三元组，从配置的选项列表中选出
// JSON 形式同时作为排行榜分组的元数据
type Difficulty struct {
	TimeScale float64 `json:"time_scale" yaml:"timeScale"`
	GameTime  float64 `json:"game_time" yaml:"gameTime"`
	Lives     int     `json:"lives" yaml:"lives"`
}

// String 返回便于日志输出的描述
func (d Difficulty) String() string {
	return fmt.Sprintf("x%.2g/%.0fs/%d lives", d.TimeScale, d.GameTime, d.Lives)
}

// DifficultySelection 菜单上三个难度选项当前选中的下标
type DifficultySelection struct {
	TimeScale int
	GameTime  int
	Lives     int
}

// Difficulty 根据选中下标构造难度，下标越界时按列表长度取模
func (c *Config) Difficulty(sel DifficultySelection) Difficulty {
	return Difficulty{
		TimeScale: c.TimeScale[wrapIndex(sel.TimeScale, len(c.TimeScale))],
		GameTime:  c.GameTime[wrapIndex(sel.GameTime, len(c.GameTime))],
		Lives:     c.Lives[wrapIndex(sel.Lives, len(c.Lives))],
	}
}

// Selection 反查难度对应的下标，找不到的分量返回 0
func (c *Config) Selection(d Difficulty) DifficultySelection {
	var sel DifficultySelection
	for i, v := range c.TimeScale {
		if v == d.TimeScale {
			sel.TimeScale = i
		}
	}
	for i, v := range c.GameTime {
		if v == d.GameTime {
			sel.GameTime = i
		}
	}
	for i, v := range c.Lives {
		if v == d.Lives {
			sel.Lives = i
		}
	}
	return sel
}

// Next 把指定分量切换到下一个选项（循环）
func (sel DifficultySelection) Next(c *Config, field string) DifficultySelection {
	switch field {
	case "time_scale":
		sel.TimeScale = (sel.TimeScale + 1) % len(c.TimeScale)
	case "game_time":
		sel.GameTime = (sel.GameTime + 1) % len(c.GameTime)
	case "lives":
		sel.Lives = (sel.Lives + 1) % len(c.Lives)
	}
	return sel
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
