package game

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/jugglemail/pkg/config"
)

// BestScore 某个难度下的本地最高分
type BestScore struct {
	Difficulty config.Difficulty `yaml:"difficulty"`
	Score      int64             `yaml:"score"`
	PlayerName string            `yaml:"playerName"`
	At         time.Time         `yaml:"at"`
}

// scoreBookData 持久化格式
type scoreBookData struct {
	Best        []BestScore `yaml:"best"`
	RoundsTotal int         `yaml:"roundsTotal"`
}

// ScoreBook 本地成绩簿
//
// 职责：
//   - 记录每个难度组合的最高分
//   - 统计总局数
//
// 排行榜不可用时，结算界面用它显示"个人最佳"。
// 数据以 YAML 存储在 gdata 中；gdataManager 为 nil 时只保存在内存。
type ScoreBook struct {
	gdataManager *gdata.Manager
	data         scoreBookData
	now          func() time.Time
}

const (
	scoreBookObject   = "scores"
	scoreBookProperty = "best"
)

// NewScoreBook 创建成绩簿并加载已有记录
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *ScoreBook: 成绩簿，加载失败时为空簿
func NewScoreBook(gdataManager *gdata.Manager) *ScoreBook {
	sb := &ScoreBook{
		gdataManager: gdataManager,
		now:          time.Now,
	}
	if err := sb.Load(); err != nil {
		log.Printf("[ScoreBook] Warning: %v (starting empty)", err)
	}
	return sb
}

// Load 从 gdata 加载记录
func (sb *ScoreBook) Load() error {
	sb.data = scoreBookData{}
	if sb.gdataManager == nil || !sb.gdataManager.ObjectPropExists(scoreBookObject, scoreBookProperty) {
		return nil
	}

	raw, err := sb.gdataManager.LoadObjectProp(scoreBookObject, scoreBookProperty)
	if err != nil {
		return fmt.Errorf("failed to load score book: %w", err)
	}
	var data scoreBookData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse score book: %w", err)
	}
	sb.data = data
	return nil
}

// Save 保存记录到 gdata，降级模式下为空操作
func (sb *ScoreBook) Save() error {
	if sb.gdataManager == nil {
		return nil
	}
	raw, err := yaml.Marshal(sb.data)
	if err != nil {
		return fmt.Errorf("failed to marshal score book: %w", err)
	}
	if err := sb.gdataManager.SaveObjectProp(scoreBookObject, scoreBookProperty, raw); err != nil {
		return fmt.Errorf("failed to save score book: %w", err)
	}
	return nil
}

// Record 记录一局成绩并保存
//
// 参数：
//   - d: 本局难度
//   - name: 玩家名
//   - score: 本局分数（向下取整后比较）
//
// 返回：
//   - bool: 是否刷新了该难度的最高分
//   - error: 保存失败时返回错误（内存中的记录已更新）
func (sb *ScoreBook) Record(d config.Difficulty, name string, score float64) (bool, error) {
	sb.data.RoundsTotal++
	points := int64(score)

	improved := false
	if i := sb.find(d); i < 0 {
		sb.data.Best = append(sb.data.Best, BestScore{Difficulty: d, Score: points, PlayerName: name, At: sb.now()})
		improved = true
	} else if points > sb.data.Best[i].Score {
		sb.data.Best[i] = BestScore{Difficulty: d, Score: points, PlayerName: name, At: sb.now()}
		improved = true
	}

	if improved {
		log.Printf("[ScoreBook] New best for %s: %d", d, points)
	}
	return improved, sb.Save()
}

// Best 返回某个难度的最高分
func (sb *ScoreBook) Best(d config.Difficulty) (BestScore, bool) {
	if i := sb.find(d); i >= 0 {
		return sb.data.Best[i], true
	}
	return BestScore{}, false
}

// All 返回全部最高分，按分数从高到低排序
func (sb *ScoreBook) All() []BestScore {
	out := append([]BestScore(nil), sb.data.Best...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// RoundsPlayed 累计完成的局数
func (sb *ScoreBook) RoundsPlayed() int {
	return sb.data.RoundsTotal
}

func (sb *ScoreBook) find(d config.Difficulty) int {
	for i := range sb.data.Best {
		if sb.data.Best[i].Difficulty == d {
			return i
		}
	}
	return -1
}
