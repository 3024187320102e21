package gacha

// --- 经济常量 ---
// 这些数值是对外契约的一部分，UI按它们展示价格和概率
const (
	// SingleCost 是单抽价格，TenCost 是十连价格（恰好是单抽的10倍，一次性扣除）
	SingleCost = 600
	TenCost    = 6000

	// TenPullCount 是一次十连包含的抽取次数
	TenPullCount = 10

	// PityThreshold 是触发保底加成的连续未出6星次数
	PityThreshold = 50
	// PityStep 是每次触发保底时6星概率的增量
	PityStep = 0.02
	// PityCap 是保底加成的上限
	PityCap = 1.0
)

// starOrder 是抽取判定时的星级遍历顺序，从最稀有到最普通
var starOrder = [4]int{6, 5, 4, 3}

// baseRates 是各星级的基础概率，总和为1
var baseRates = map[int]float64{
	6: 0.02,
	5: 0.08,
	4: 0.50,
	3: 0.40,
}

// duplicateRefund 是重复获得奖品时按星级返还的金币数
var duplicateRefund = map[int]int{
	6: 1000,
	5: 500,
	4: 200,
	3: 100,
}

// AdjustedRates 计算应用保底加成后的各星级概率。
// 6星概率加上pityRate，其余星级按剩余概率质量等比缩放，
// 调整后的概率总和仍为1。
func AdjustedRates(pityRate float64) map[int]float64 {
	rates := make(map[int]float64, len(baseRates))
	for star, p := range baseRates {
		rates[star] = p
	}
	rates[6] += pityRate
	if rates[6] > 1 {
		rates[6] = 1
	}

	totalOther := rates[3] + rates[4] + rates[5]
	if totalOther > 0 {
		scale := (1 - rates[6]) / totalOther
		for _, star := range []int{3, 4, 5} {
			rates[star] *= scale
		}
	}
	return rates
}

// PickStar 根据随机值r在调整后的概率上选出星级。
// 从高星到低星累积概率质量，第一个累积值不小于r的星级被选中；
// 浮点误差导致累积和略小于1时回退到3星。
func PickStar(r float64, rates map[int]float64) int {
	cumulative := 0.0
	for _, star := range starOrder {
		cumulative += rates[star]
		if r <= cumulative {
			return star
		}
	}
	return 3
}

// refundFor 返回指定星级的重复返还金额
func refundFor(star int) int {
	return duplicateRefund[star]
}
