package rng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source 是经济系统使用的随机数来源抽象。
// 抽卡的星级/奖品选择和升级的金币倍率都通过它取随机数，
// 测试时注入确定性的种子实现即可复现完整的抽取序列。
type Source interface {
	// Float64 返回 [0, 1) 区间内的均匀随机数
	Float64() float64
	// IntN 返回 [0, n) 区间内的均匀随机整数，n 必须为正
	IntN(n int) int
}

// cryptoSource 是默认实现，随机数来自操作系统的密码学随机源
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// 极罕见的读取失败时退回math/rand/v2
		return rand.Float64()
	}
	// 取高53位构造 [0, 1) 的浮点数
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

func (c cryptoSource) IntN(n int) int {
	return int(c.Float64() * float64(n))
}

// Default 返回默认的密码学随机源
func Default() Source {
	return cryptoSource{}
}

// seededSource 是可复现的随机源，用于测试和模拟
type seededSource struct {
	r *rand.Rand
}

// NewSeeded 返回一个由给定种子驱动的确定性随机源
func NewSeeded(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }

func (s *seededSource) IntN(n int) int { return s.r.IntN(n) }
