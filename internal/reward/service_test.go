package reward_test

import (
	"testing"

	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/reward"
	"github.com/19saki/BanXi/internal/user"
)

func newTestService(t *testing.T) (*reward.Service, *database.Handle) {
	t.Helper()
	h, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })

	if err := h.DB().AutoMigrate(&user.User{}, &reward.Reward{}); err != nil {
		t.Fatal(err)
	}
	return reward.NewService(h), h
}

func seedUser(t *testing.T, h *database.Handle, coins, platinum int) uint {
	t.Helper()
	u := user.User{Name: "测试用户", Level: 1, Coins: coins, PlatinumCoins: platinum}
	if err := h.DB().Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return u.ID
}

func loadUser(t *testing.T, h *database.Handle, id uint) user.User {
	t.Helper()
	var u user.User
	if err := h.DB().First(&u, id).Error; err != nil {
		t.Fatal(err)
	}
	return u
}

func TestCreateValidation(t *testing.T) {
	svc, h := newTestService(t)
	uid := seedUser(t, h, 0, 0)

	if _, reason, err := svc.Create(uid, "吃顿好的", 0, ""); err != nil || reason != reward.ReasonInvalidAmount {
		t.Fatalf("price 0: reason=%q err=%v, want invalid_amount", reason, err)
	}
	if _, reason, err := svc.Create(uid, "吃顿好的", -5, ""); err != nil || reason != reward.ReasonInvalidAmount {
		t.Fatalf("negative price: reason=%q err=%v, want invalid_amount", reason, err)
	}
	if _, reason, err := svc.Create(uid, "吃顿好的", 100, "gems"); err != nil || reason != reward.ReasonInvalidCurrency {
		t.Fatalf("unknown currency: reason=%q err=%v, want invalid_currency", reason, err)
	}

	// 货币类型缺省为金币
	r, reason, err := svc.Create(uid, "吃顿好的", 100, "")
	if err != nil || reason != "" {
		t.Fatalf("create failed: reason=%q err=%v", reason, err)
	}
	if r.CurrencyType != reward.CurrencyCoins {
		t.Fatalf("CurrencyType = %q, want coins", r.CurrencyType)
	}
}

func TestRedeemWithCoins(t *testing.T) {
	svc, h := newTestService(t)
	uid := seedUser(t, h, 150, 2)

	r, reason, err := svc.Create(uid, "看一部电影", 100, reward.CurrencyCoins)
	if err != nil || reason != "" {
		t.Fatalf("create failed: reason=%q err=%v", reason, err)
	}

	res, err := svc.Redeem(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("redeem failed: %+v", res)
	}
	if res.RemainingCoins != 50 || res.RemainingPlatinum != 2 {
		t.Fatalf("got %+v, want 50 coins and untouched platinum", res)
	}

	u := loadUser(t, h, uid)
	if u.Coins != 50 || u.PlatinumCoins != 2 {
		t.Fatalf("persisted balances %+v", u)
	}

	// 兑换是终态
	res, err = svc.Redeem(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != reward.ReasonAlreadyRedeemed {
		t.Fatalf("got %+v, want already_redeemed", res)
	}
	if u := loadUser(t, h, uid); u.Coins != 50 {
		t.Fatalf("balance changed on repeated redeem: %+v", u)
	}
}

func TestRedeemWithPlatinum(t *testing.T) {
	svc, h := newTestService(t)
	uid := seedUser(t, h, 40, 5)

	r, reason, err := svc.Create(uid, "买个新手办", 3, reward.CurrencyPlatinum)
	if err != nil || reason != "" {
		t.Fatalf("create failed: reason=%q err=%v", reason, err)
	}

	res, err := svc.Redeem(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("redeem failed: %+v", res)
	}
	if res.RemainingPlatinum != 2 || res.RemainingCoins != 40 {
		t.Fatalf("got %+v, want 2 platinum and untouched coins", res)
	}
}

func TestRedeemNotEnoughPlatinum(t *testing.T) {
	svc, h := newTestService(t)
	uid := seedUser(t, h, 40, 3)

	r, reason, err := svc.Create(uid, "买个新手办", 5, reward.CurrencyPlatinum)
	if err != nil || reason != "" {
		t.Fatalf("create failed: reason=%q err=%v", reason, err)
	}

	res, err := svc.Redeem(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != reward.ReasonNotEnoughPlatinum {
		t.Fatalf("got %+v, want not_enough_platinum", res)
	}
	if res.RemainingCoins != 40 || res.RemainingPlatinum != 3 {
		t.Fatalf("failure result %+v must echo current balances", res)
	}

	// 奖励保持未兑换，余额不变
	rewards, err := svc.ListByUser(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(rewards) != 1 || rewards[0].Completed {
		t.Fatalf("reward state %+v, want untouched", rewards)
	}
	if u := loadUser(t, h, uid); u.PlatinumCoins != 3 {
		t.Fatalf("platinum changed on failed redeem: %+v", u)
	}
}

func TestRedeemNotEnoughCoins(t *testing.T) {
	svc, h := newTestService(t)
	uid := seedUser(t, h, 99, 0)

	r, reason, err := svc.Create(uid, "看一部电影", 100, reward.CurrencyCoins)
	if err != nil || reason != "" {
		t.Fatalf("create failed: reason=%q err=%v", reason, err)
	}

	res, err := svc.Redeem(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != reward.ReasonNotEnoughCoins {
		t.Fatalf("got %+v, want not_enough_coins", res)
	}
	if u := loadUser(t, h, uid); u.Coins != 99 {
		t.Fatalf("coins changed on failed redeem: %+v", u)
	}
}

func TestRedeemRewardNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Redeem(12345)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != reward.ReasonRewardNotFound {
		t.Fatalf("got %+v, want reward_not_found", res)
	}
}

func TestDeleteReward(t *testing.T) {
	svc, h := newTestService(t)
	uid := seedUser(t, h, 0, 0)

	r, reason, err := svc.Create(uid, "吃顿好的", 100, "")
	if err != nil || reason != "" {
		t.Fatalf("create failed: reason=%q err=%v", reason, err)
	}

	ok, err := svc.Delete(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("delete reported no rows")
	}
	ok, err = svc.Delete(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("second delete reported rows affected")
	}
}
