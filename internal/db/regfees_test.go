//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"github.com/Spok95/dance-contest-core/internal/db"
	"github.com/Spok95/dance-contest-core/internal/models"
	"github.com/Spok95/dance-contest-core/internal/testutil/testdb"
)

func TestRegistrationFees_Lifecycle(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	ids := mustSeedDancers(t, h.DB, "Иванова Алиса", "Петрова Мария", "Сидорова Анна")

	// без записи — не оплачено
	rec, err := db.GetStatus(ctx, h.DB, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if rec.Paid {
		t.Fatal("новый танцор не может числиться оплатившим")
	}

	if err := db.MarkPaid(ctx, h.DB, ids[0], models.Water); err != nil {
		t.Fatal(err)
	}
	rec, err = db.GetStatus(ctx, h.DB, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Satisfies(models.Water) {
		t.Fatalf("ожидали оплату под «Водой»: %+v", rec)
	}
	// оплата под одним уровнем не закрывает другой
	if rec.Satisfies(models.Fire) {
		t.Fatal("оплата «Воды» не должна покрывать «Огонь»")
	}

	// перевод на другой уровень перезаписывает состояние
	if err := db.MarkPaid(ctx, h.DB, ids[0], models.Fire); err != nil {
		t.Fatal(err)
	}
	rec, _ = db.GetStatus(ctx, h.DB, ids[0])
	if !rec.Satisfies(models.Fire) || rec.Satisfies(models.Water) {
		t.Fatalf("ожидали перенос на «Огонь»: %+v", rec)
	}

	if err := db.MarkUnpaid(ctx, h.DB, ids[0]); err != nil {
		t.Fatal(err)
	}
	rec, _ = db.GetStatus(ctx, h.DB, ids[0])
	if rec.Paid || rec.MasteryLevel != nil || rec.PaidAt != nil {
		t.Fatalf("после сброса состояние должно быть чистым: %+v", rec)
	}
}

func TestRegistrationFees_GetStatusForMany(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	ctx := context.Background()
	ids := mustSeedDancers(t, h.DB, "Кузнецова Вера", "Смирнова Дарья", "Волкова Ольга")

	if err := db.MarkPaid(ctx, h.DB, ids[1], models.Water); err != nil {
		t.Fatal(err)
	}

	m, err := db.GetStatusForMany(ctx, h.DB, ids)
	if err != nil {
		t.Fatal(err)
	}
	// запись есть только у оплатившей; остальные трактуются как должники
	if len(m) != 1 {
		t.Fatalf("ожидали одну запись, получили %d", len(m))
	}
	if !m[ids[1]].Satisfies(models.Water) {
		t.Fatalf("ожидали оплату: %+v", m[ids[1]])
	}
}
