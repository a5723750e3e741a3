package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sachinsen7/grin/internal/model"
	"github.com/Sachinsen7/grin/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestGsnCreateDuplicateGrinNoIsDuplicatedKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewGsnRepository(db)
	ctx := context.Background()

	first := &model.GsnEntry{ID: uuid.New(), GrinNo: "GRIN-77", GsnNo: "GSN-1", PartyName: "Acme Metals"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A concurrent upload that raced past the existence check hits the
	// grin_no unique index; the driver must translate that to ErrDuplicatedKey
	// so the service can answer with its duplicate response.
	dup := &model.GsnEntry{ID: uuid.New(), GrinNo: "GRIN-77", GsnNo: "GSN-2", PartyName: "Acme Metals"}
	if err := repo.Create(ctx, dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate grin_no error = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestGsnListByPartyOldestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewGsnRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// Insert newest first so insertion order cannot mask a missing ORDER BY.
	for i, gsnNo := range []string{"GSN-3", "GSN-2", "GSN-1"} {
		entry := &model.GsnEntry{
			ID:        uuid.New(),
			GrinNo:    uuid.NewString()[:8],
			GsnNo:     gsnNo,
			PartyName: "Acme Metals",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("create %s: %v", gsnNo, err)
		}
	}

	entries, err := repo.ListByParty(ctx, "Acme Metals")
	if err != nil {
		t.Fatalf("ListByParty: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].GsnNo != "GSN-1" || entries[2].GsnNo != "GSN-3" {
		t.Errorf("order = %s..%s, want oldest first", entries[0].GsnNo, entries[2].GsnNo)
	}
}
