package user_test

import (
	"testing"
	"time"

	"github.com/19saki/BanXi/internal/gacha"
	"github.com/19saki/BanXi/internal/platform/database"
	"github.com/19saki/BanXi/internal/reward"
	"github.com/19saki/BanXi/internal/task"
	"github.com/19saki/BanXi/internal/user"
)

func newTestService(t *testing.T) (*user.Service, *database.Handle) {
	t.Helper()
	h, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })

	// 级联删除会触及全部引用用户的表
	err = h.DB().AutoMigrate(
		&user.User{},
		&task.Task{},
		&task.RepeatTask{},
		&reward.Reward{},
		&gacha.Item{},
		&gacha.Record{},
		&gacha.Stats{},
	)
	if err != nil {
		t.Fatal(err)
	}
	return user.NewService(h), h
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Create("玖")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.ID == 0 {
		t.Fatalf("create failed: %+v", res)
	}

	u, err := svc.Get(res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.Name != "玖" || u.Level != 1 {
		t.Fatalf("got %+v, want new user at level 1", u)
	}

	missing, err := svc.Get(9999)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("got %+v for missing user, want nil", missing)
	}
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Create("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != user.ReasonEmptyName {
		t.Fatalf("got %+v, want empty_name", res)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create("玖"); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Create("玖")
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != user.ReasonDuplicateName {
		t.Fatalf("got %+v, want duplicate_name", res)
	}
}

func TestExchangePlatinum(t *testing.T) {
	svc, h := newTestService(t)
	u := user.User{Name: "玖", Level: 1, Coins: 10, PlatinumCoins: 5}
	if err := h.DB().Create(&u).Error; err != nil {
		t.Fatal(err)
	}

	res, err := svc.ExchangePlatinum(u.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("exchange failed: %+v", res)
	}
	if res.CoinsGained != 200 || res.RemainingCoins != 210 || res.RemainingPlatinum != 3 {
		t.Fatalf("got %+v, want +200 coins, 210/3 remaining", res)
	}

	var after user.User
	if err := h.DB().First(&after, u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if after.Coins != 210 || after.PlatinumCoins != 3 {
		t.Fatalf("persisted balances %+v", after)
	}
}

func TestExchangePlatinumInsufficient(t *testing.T) {
	svc, h := newTestService(t)
	u := user.User{Name: "玖", Level: 1, Coins: 10, PlatinumCoins: 1}
	if err := h.DB().Create(&u).Error; err != nil {
		t.Fatal(err)
	}

	res, err := svc.ExchangePlatinum(u.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != user.ReasonNotEnoughPlatinum {
		t.Fatalf("got %+v, want not_enough_platinum", res)
	}
	if res.RemainingCoins != 10 || res.RemainingPlatinum != 1 {
		t.Fatalf("failure result %+v must echo current balances", res)
	}

	var after user.User
	if err := h.DB().First(&after, u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if after.Coins != 10 || after.PlatinumCoins != 1 {
		t.Fatalf("balances changed on failed exchange: %+v", after)
	}
}

func TestExchangePlatinumInvalidAmount(t *testing.T) {
	svc, h := newTestService(t)
	u := user.User{Name: "玖", Level: 1, PlatinumCoins: 5}
	if err := h.DB().Create(&u).Error; err != nil {
		t.Fatal(err)
	}

	for _, amount := range []int{0, -1} {
		res, err := svc.ExchangePlatinum(u.ID, amount)
		if err != nil {
			t.Fatal(err)
		}
		if res.Success || res.Reason != user.ReasonInvalidAmount {
			t.Fatalf("amount=%d: got %+v, want invalid_amount", amount, res)
		}
	}
}

func TestExchangePlatinumUserNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ExchangePlatinum(9999, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Reason != user.ReasonUserNotFound {
		t.Fatalf("got %+v, want user_not_found", res)
	}
}

func TestDeleteCascades(t *testing.T) {
	svc, h := newTestService(t)
	u := user.User{Name: "玖", Level: 1}
	if err := h.DB().Create(&u).Error; err != nil {
		t.Fatal(err)
	}

	// 用户名下的任务、奖励和抽卡数据
	item := gacha.Item{Name: "三星奖品", Star: 3}
	if err := h.DB().Create(&item).Error; err != nil {
		t.Fatal(err)
	}
	seeds := []interface{}{
		&task.Task{UserID: u.ID, Name: "整理房间", XPReward: 50},
		&task.RepeatTask{UserID: u.ID, Name: "0点前睡", XPReward: 90, MaxCompletions: 1},
		&reward.Reward{UserID: u.ID, Name: "吃顿好的", Price: 100, CurrencyType: reward.CurrencyCoins},
		&gacha.Record{UserID: u.ID, ItemID: item.ID, DrawTime: time.Now()},
		&gacha.Stats{UserID: u.ID, NoSixStarCount: 3},
	}
	for _, s := range seeds {
		if err := h.DB().Create(s).Error; err != nil {
			t.Fatal(err)
		}
	}

	ok, err := svc.Delete(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("delete reported no rows")
	}

	for table, model := range map[string]interface{}{
		"tasks":         &task.Task{},
		"repeat_tasks":  &task.RepeatTask{},
		"rewards":       &reward.Reward{},
		"gacha_records": &gacha.Record{},
		"gacha_stats":   &gacha.Stats{},
	} {
		var n int64
		if err := h.DB().Model(model).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Fatalf("%s still has %d rows for deleted user", table, n)
		}
	}

	got, err := svc.Get(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("user still present after delete: %+v", got)
	}

	// 奖池目录不属于用户数据，不应被级联删除
	var items int64
	if err := h.DB().Model(&gacha.Item{}).Count(&items).Error; err != nil {
		t.Fatal(err)
	}
	if items != 1 {
		t.Fatalf("gacha items = %d after user delete, want 1", items)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	svc, _ := newTestService(t)

	ok, err := svc.Delete(9999)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("delete of missing user reported rows affected")
	}
}

func TestEnsureDefaultUsersIsIdempotent(t *testing.T) {
	svc, h := newTestService(t)

	for i := 0; i < 2; i++ {
		if err := user.EnsureDefaultUsers(h.DB()); err != nil {
			t.Fatal(err)
		}
	}

	users, err := svc.Users()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d after repeated seeding, want 2", len(users))
	}
}
