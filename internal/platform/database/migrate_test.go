package database

import (
	"testing"

	"gorm.io/gorm"
)

type migrateProbe struct {
	ID   uint `gorm:"primarykey"`
	Note string
}

func TestMigrateAppliesOnce(t *testing.T) {
	h, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	runs := 0
	migrations := []Migration{
		{
			Version: 1,
			Name:    "create probe table",
			Run: func(tx *gorm.DB) error {
				runs++
				return tx.AutoMigrate(&migrateProbe{})
			},
		},
	}

	if err := Migrate(h.DB(), migrations); err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Fatalf("migration ran %d times, want 1", runs)
	}

	// 重复执行不应再次应用同版本的迁移
	if err := Migrate(h.DB(), migrations); err != nil {
		t.Fatal(err)
	}
	if runs != 1 {
		t.Fatalf("migration re-applied on second run: %d", runs)
	}

	var versions int64
	if err := h.DB().Model(&schemaVersion{}).Count(&versions).Error; err != nil {
		t.Fatal(err)
	}
	if versions != 1 {
		t.Fatalf("schema_versions has %d rows, want 1", versions)
	}
}

func TestMigrateOrdersByVersion(t *testing.T) {
	h, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	var order []int
	migrations := []Migration{
		{Version: 2, Name: "second", Run: func(tx *gorm.DB) error { order = append(order, 2); return nil }},
		{Version: 1, Name: "first", Run: func(tx *gorm.DB) error { order = append(order, 1); return nil }},
	}

	if err := Migrate(h.DB(), migrations); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("migrations applied in order %v, want [1 2]", order)
	}
}
