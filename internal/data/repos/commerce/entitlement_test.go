package commerce

import (
	"context"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestEntitlementRepoUniquePerItem(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewEntitlementRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "buyer@example.com")
	course := testutil.SeedCourse(t, ctx, db, false)
	product := testutil.SeedProduct(t, ctx, db)

	paid := &types.Entitlement{UserID: u.ID, ItemType: types.ItemCourse, ItemID: course.ID, AmountPaid: 150000, Currency: "IDR", Source: types.SourceCheckout}
	stored, created, err := repo.CreateIfAbsent(dbc, paid)
	if err != nil || !created {
		t.Fatalf("CreateIfAbsent: created=%v err=%v", created, err)
	}

	grant := &types.Entitlement{UserID: u.ID, ItemType: types.ItemCourse, ItemID: course.ID, Source: types.SourceAdminGrant}
	again, created, err := repo.CreateIfAbsent(dbc, grant)
	if err != nil {
		t.Fatalf("CreateIfAbsent duplicate: %v", err)
	}
	if created {
		t.Fatalf("CreateIfAbsent duplicate: want created=false")
	}
	if again.ID != stored.ID || again.AmountPaid != 150000 {
		t.Fatalf("duplicate mutated the stored row: %+v", again)
	}

	if ok, err := repo.Exists(dbc, u.ID, types.ItemCourse, course.ID); err != nil || !ok {
		t.Fatalf("Exists course: ok=%v err=%v", ok, err)
	}
	// Same id space, different item type: no access.
	if ok, err := repo.Exists(dbc, u.ID, types.ItemProduct, course.ID); err != nil || ok {
		t.Fatalf("Exists wrong type: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Exists(dbc, u.ID, types.ItemProduct, product.ID); err != nil || ok {
		t.Fatalf("Exists product before grant: ok=%v err=%v", ok, err)
	}

	if _, _, err := repo.CreateIfAbsent(dbc, &types.Entitlement{UserID: u.ID, ItemType: types.ItemProduct, ItemID: product.ID, Source: types.SourceAdminGrant}); err != nil {
		t.Fatalf("grant product: %v", err)
	}
	if ids, err := repo.ItemIDs(dbc, u.ID, types.ItemProduct); err != nil || len(ids) != 1 || ids[0] != product.ID {
		t.Fatalf("ItemIDs: err=%v ids=%v", err, ids)
	}
	if rows, err := repo.ListByUserID(dbc, u.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserID: err=%v len=%d", err, len(rows))
	}

	if deleted, err := repo.Delete(dbc, u.ID, types.ItemCourse, course.ID); err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	if deleted, err := repo.Delete(dbc, u.ID, types.ItemCourse, course.ID); err != nil || deleted {
		t.Fatalf("Delete twice: deleted=%v err=%v", deleted, err)
	}
	if ok, _ := repo.Exists(dbc, u.ID, types.ItemCourse, course.ID); ok {
		t.Fatalf("Exists after revoke: want=false")
	}
}

func TestCheckoutOrderRepoTransitionOnce(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.New(ctx)
	repo := NewCheckoutOrderRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "order@example.com")
	course := testutil.SeedCourse(t, ctx, db, false)

	order := &types.CheckoutOrder{ID: "CH-1", UserID: u.ID, ItemType: types.ItemCourse, ItemID: course.ID, Amount: 150000, Currency: "IDR"}
	if _, err := repo.Create(dbc, order); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AttachPayment(dbc, order.ID, "snap-token", "https://pay.example/CH-1"); err != nil {
		t.Fatalf("AttachPayment: %v", err)
	}

	moved, err := repo.Transition(dbc, order.ID, types.OrderPaid)
	if err != nil || !moved {
		t.Fatalf("Transition: moved=%v err=%v", moved, err)
	}
	moved, err = repo.Transition(dbc, order.ID, types.OrderExpired)
	if err != nil || moved {
		t.Fatalf("second Transition: moved=%v err=%v", moved, err)
	}

	got, err := repo.GetByID(dbc, order.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got.Status != types.OrderPaid || got.RedirectURL == "" {
		t.Fatalf("GetByID: want paid with redirect, got %+v", got)
	}
	if missing, err := repo.GetByID(dbc, "nope"); err != nil || missing != nil {
		t.Fatalf("GetByID missing: got=%v err=%v", missing, err)
	}
}
