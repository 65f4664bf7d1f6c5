package leaderboard

import "sort"

// Rank 在完整榜单中计算本次分数的名次
//
// 规则：
//   - 只保留 meta 相同（同难度）的记录，按分数从高到低排序
//   - 计算名次时每个玩家只保留最好的一条，但与本次分数相等的记录都保留
//   - 返回的前几名中每个玩家只出现一次
//
// 参数：
//   - scores: 服务端返回的全部记录
//   - meta: 本次提交的 meta
//   - mine: 本次分数
//   - topN: 返回的前几名数量
func Rank(scores []Score, meta string, mine float64, topN int) (Result, error) {
	var same []Score
	for _, s := range scores {
		if s.Meta == meta {
			same = append(same, s)
		}
	}
	sort.SliceStable(same, func(i, j int) bool {
		return same[i].Score > same[j].Score
	})

	seen := make(map[string]bool)
	var ranked []Score
	for _, s := range same {
		if !seen[s.Player] || s.Score == mine {
			seen[s.Player] = true
			ranked = append(ranked, s)
		}
	}

	rank := -1
	for i, s := range ranked {
		if s.Score == mine {
			rank = i
			break
		}
	}
	if rank < 0 {
		return Result{}, ErrScoreMissing
	}

	seen = make(map[string]bool)
	var top []Score
	for _, s := range ranked {
		if seen[s.Player] {
			continue
		}
		seen[s.Player] = true
		top = append(top, s)
		if len(top) == topN {
			break
		}
	}

	return Result{Rank: rank, Top: top}, nil
}
