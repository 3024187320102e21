package leveling

import (
	"testing"

	"github.com/19saki/BanXi/pkg/rng"
)

// fixedSource 按给定序列返回随机数，用完后循环
type fixedSource struct {
	floats []float64
	i      int
}

func (f *fixedSource) Float64() float64 {
	v := f.floats[f.i%len(f.floats)]
	f.i++
	return v
}

func (f *fixedSource) IntN(n int) int { return 0 }

func TestXPRequired(t *testing.T) {
	cases := []struct {
		level, want int
	}{
		{1, 100},
		{2, 119},
		{3, 138},
		{10, 271},
	}
	for _, c := range cases {
		if got := XPRequired(c.level); got != c.want {
			t.Errorf("XPRequired(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}

func TestApplyXPNoLevelUp(t *testing.T) {
	e := NewEngine(rng.NewSeeded(1), false)
	res := e.ApplyXP(10, 1, 50)

	if res.NewXP != 60 || res.NewLevel != 1 {
		t.Fatalf("got xp=%d level=%d, want 60/1", res.NewXP, res.NewLevel)
	}
	if res.LevelsGained != 0 || res.CoinsGained != 0 || len(res.Details) != 0 {
		t.Fatalf("unexpected rewards without level up: %+v", res)
	}
}

func TestApplyXPCascade(t *testing.T) {
	// 95 + 250 = 345: 跨越1→2 (需100, 余245) 和 2→3 (需119, 余126)，停在3级
	e := NewEngine(rng.NewSeeded(7), false)
	res := e.ApplyXP(95, 1, 250)

	if res.NewLevel != 3 {
		t.Fatalf("NewLevel = %d, want 3", res.NewLevel)
	}
	if res.NewXP != 126 {
		t.Fatalf("NewXP = %d, want 126", res.NewXP)
	}
	if res.LevelsGained != 2 {
		t.Fatalf("LevelsGained = %d, want 2", res.LevelsGained)
	}
	if len(res.Details) != 2 {
		t.Fatalf("len(Details) = %d, want 2", len(res.Details))
	}

	wantBase := []int{100, 119}
	for i, d := range res.Details {
		if d.FromLevel != i+1 || d.ToLevel != i+2 {
			t.Errorf("detail %d crosses %d→%d, want %d→%d", i, d.FromLevel, d.ToLevel, i+1, i+2)
		}
		if d.BaseReward != wantBase[i] {
			t.Errorf("detail %d base reward = %d, want %d", i, d.BaseReward, wantBase[i])
		}
		if d.RandomMultiplier < 0.8 || d.RandomMultiplier > 1.5 {
			t.Errorf("detail %d multiplier %v out of [0.8, 1.5]", i, d.RandomMultiplier)
		}
		if d.ActualReward < int(float64(d.BaseReward)*0.8) || d.ActualReward > int(float64(d.BaseReward)*1.5) {
			t.Errorf("detail %d actual reward %d out of range for base %d", i, d.ActualReward, d.BaseReward)
		}
	}

	if res.NewXP >= XPRequired(res.NewLevel) {
		t.Fatalf("xp %d not normalized below threshold %d", res.NewXP, XPRequired(res.NewLevel))
	}
}

func TestApplyXPDeterministicReward(t *testing.T) {
	// 倍率取最小值0.8：奖励 = floor(100 * 0.8) = 80
	e := NewEngine(&fixedSource{floats: []float64{0.0}}, false)
	res := e.ApplyXP(0, 1, 100)

	if res.NewLevel != 2 || res.NewXP != 0 {
		t.Fatalf("got level=%d xp=%d, want 2/0", res.NewLevel, res.NewXP)
	}
	if res.CoinsGained != 80 {
		t.Fatalf("CoinsGained = %d, want 80", res.CoinsGained)
	}
	if res.Details[0].RandomMultiplier != 0.8 {
		t.Fatalf("RandomMultiplier = %v, want 0.8", res.Details[0].RandomMultiplier)
	}
}

func TestApplyXPEvenLevelPlatinum(t *testing.T) {
	// 1→2→3：只有2级是偶数等级，奖励1枚铂金币
	e := NewEngine(rng.NewSeeded(3), true)
	res := e.ApplyXP(95, 1, 250)

	if res.PlatinumGained != 1 {
		t.Fatalf("PlatinumGained = %d, want 1", res.PlatinumGained)
	}
	if res.Details[0].PlatinumReward != 1 {
		t.Errorf("level 2 detail platinum = %d, want 1", res.Details[0].PlatinumReward)
	}
	if res.Details[1].PlatinumReward != 0 {
		t.Errorf("level 3 detail platinum = %d, want 0", res.Details[1].PlatinumReward)
	}
}

func TestApplyXPManyLevels(t *testing.T) {
	// 大额经验一次性跨越多级，轨迹必须覆盖每一个跨越的等级
	e := NewEngine(rng.NewSeeded(11), true)
	res := e.ApplyXP(0, 1, 5000)

	if res.LevelsGained < 3 {
		t.Fatalf("expected several level ups, got %d", res.LevelsGained)
	}
	if res.NewLevel != 1+res.LevelsGained {
		t.Fatalf("NewLevel = %d, want %d", res.NewLevel, 1+res.LevelsGained)
	}
	if len(res.Details) != res.LevelsGained {
		t.Fatalf("trace has %d entries for %d level ups", len(res.Details), res.LevelsGained)
	}
	for i := 1; i < len(res.Details); i++ {
		if res.Details[i].FromLevel != res.Details[i-1].ToLevel {
			t.Fatalf("trace not sequential at %d: %+v", i, res.Details)
		}
	}
	if res.NewXP >= XPRequired(res.NewLevel) {
		t.Fatalf("xp %d not normalized below threshold %d", res.NewXP, XPRequired(res.NewLevel))
	}
}
