package round

import (
	"math/rand"
	"time"
)

// Random 回合内所有随机性的唯一来源
// *rand.Rand 直接满足该接口，测试可替换为确定序列
type Random interface {
	// Float64 返回 [0, 1) 内的均匀随机数
	Float64() float64
	// Intn 返回 [0, n) 内的均匀随机整数
	Intn(n int) int
}

// NewRandom 创建以 seed 为种子的随机源
func NewRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}

func defaultRandom() Random {
	return NewRandom(time.Now().UnixNano())
}

// randRange 返回 [lo, hi) 内的均匀随机数
func randRange(rng Random, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randBool 以概率 p 返回 true
func randBool(rng Random, p float64) bool {
	return rng.Float64() < p
}
