package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/raja1702/computer-storage-solutions/internal/data/fixtures"
	"github.com/raja1702/computer-storage-solutions/internal/data/repos/testutil"
	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestStore_OrdersWindowAndUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	ada := testutil.SeedUser(t, ctx, db, "ada@example.com")
	alan := testutil.SeedUser(t, ctx, db, "alan@example.com")
	p := testutil.SeedProduct(t, ctx, db, "SSD", "10.00")

	feb, _ := testutil.SeedOrder(t, ctx, db, ada.ID, day(2024, 2, 1), testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "10.00"})
	jan, _ := testutil.SeedOrder(t, ctx, db, ada.ID, day(2024, 1, 15), testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "10.00"})
	testutil.SeedOrder(t, ctx, db, alan.ID, day(2024, 1, 20), testutil.LineSpec{ProductID: p.ID, Quantity: 2, UnitPrice: "10.00"})

	all, err := store.Orders(ctx, types.OrderQuery{UserID: ada.ID})
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(all) != 2 || all[0].ID != jan.ID || all[1].ID != feb.ID {
		t.Fatalf("want=[jan feb] got=%+v", all)
	}

	// To is exclusive.
	janOnly, err := store.Orders(ctx, types.OrderQuery{From: day(2024, 1, 1), To: day(2024, 2, 1)})
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(janOnly) != 2 {
		t.Fatalf("january orders: want=2 got=%d", len(janOnly))
	}
	for _, o := range janOnly {
		if o.OrderDate.Month() != time.January {
			t.Fatalf("unexpected order date %v", o.OrderDate)
		}
	}

	byID, err := store.Orders(ctx, types.OrderQuery{IDs: []uuid.UUID{feb.ID, feb.ID}})
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(byID) != 1 || !byID[0].TotalAmount.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("by id: got=%+v", byID)
	}
}

func TestStore_OrderLinesPriceBoundsInclusive(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "u@example.com")
	p := testutil.SeedProduct(t, ctx, db, "Cable", "10.00")
	testutil.SeedOrder(t, ctx, db, u.ID, day(2024, 3, 1),
		testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "9.99"},
		testutil.LineSpec{ProductID: p.ID, Quantity: 2, UnitPrice: "10.00"},
		testutil.LineSpec{ProductID: p.ID, Quantity: 3, UnitPrice: "20.00"},
		testutil.LineSpec{ProductID: p.ID, Quantity: 4, UnitPrice: "20.01"},
	)

	lo, hi := decimal.RequireFromString("10.00"), decimal.RequireFromString("20.00")
	lines, err := store.OrderLines(ctx, types.LineQuery{MinUnitPrice: &lo, MaxUnitPrice: &hi})
	if err != nil {
		t.Fatalf("OrderLines: %v", err)
	}
	units := 0
	for _, l := range lines {
		units += l.Quantity
	}
	if len(lines) != 2 || units != 5 {
		t.Fatalf("want=2 lines/5 units got=%d lines/%d units", len(lines), units)
	}
}

func TestStore_OrderLinesOrderWindow(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, db, "u@example.com")
	p := testutil.SeedProduct(t, ctx, db, "NAS", "119.00")
	in, _ := testutil.SeedOrder(t, ctx, db, u.ID, day(2024, 4, 30), testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "119.00"})
	testutil.SeedOrder(t, ctx, db, u.ID, day(2024, 7, 1), testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "119.00"})

	lines, err := store.OrderLines(ctx, types.LineQuery{
		OrderedFrom: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		OrderedTo:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("OrderLines: %v", err)
	}
	if len(lines) != 1 || lines[0].OrderID != in.ID {
		t.Fatalf("want=1 line of order %s got=%+v", in.ID, lines)
	}
}

func TestStore_UsersWithoutOrdersSince(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	quiet := testutil.SeedUser(t, ctx, db, "quiet@example.com")
	never := testutil.SeedUser(t, ctx, db, "never@example.com")
	boundary := testutil.SeedUser(t, ctx, db, "boundary@example.com")
	p := testutil.SeedProduct(t, ctx, db, "SSD", "50.00")
	testutil.SeedOrder(t, ctx, db, quiet.ID, since.Add(-time.Second), testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "50.00"})
	testutil.SeedOrder(t, ctx, db, boundary.ID, since, testutil.LineSpec{ProductID: p.ID, Quantity: 1, UnitPrice: "50.00"})

	users, err := store.UsersWithoutOrdersSince(ctx, since)
	if err != nil {
		t.Fatalf("UsersWithoutOrdersSince: %v", err)
	}
	got := map[uuid.UUID]bool{}
	for _, u := range users {
		got[u.ID] = true
	}
	if len(users) != 2 || !got[quiet.ID] || !got[never.ID] {
		t.Fatalf("want quiet+never got=%+v", users)
	}
}

func TestStore_LookupsIgnoreMissingIDs(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, db, "SSD", "50.00")
	products, err := store.Products(ctx, []uuid.UUID{p.ID, uuid.New()})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 1 || products[0].ID != p.ID {
		t.Fatalf("want=[%s] got=%+v", p.ID, products)
	}
	users, err := store.Users(ctx, nil)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("want=0 got=%d", len(users))
	}
}

func TestStore_ReadSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, db, "u@example.com")

	var seen int
	err := store.ReadSnapshot(ctx, func(view types.Ledger) error {
		users, err := view.Users(ctx, []uuid.UUID{u.ID})
		seen = len(users)
		return err
	})
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if seen != 1 {
		t.Fatalf("want=1 got=%d", seen)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Orders(ctx, types.OrderQuery{})
	if !analytics.IsCode(err, analytics.CodeCanceled) {
		t.Fatalf("want=%q got=%q (%v)", analytics.CodeCanceled, analytics.CodeOf(err), err)
	}
}

func TestFixtureApplyRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	store := NewStore(db, testutil.Logger(t))

	set, err := fixtures.LoadFile("../../fixtures/testdata/storefront.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := set.Apply(ctx, db, fixtures.ApplyOptions{BcryptCost: bcrypt.MinCost}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	orders, err := store.Orders(ctx, types.OrderQuery{})
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) != len(set.Orders) {
		t.Fatalf("orders: want=%d got=%d", len(set.Orders), len(orders))
	}
	lines, err := store.OrderLines(ctx, types.LineQuery{})
	if err != nil {
		t.Fatalf("OrderLines: %v", err)
	}
	if len(lines) != len(set.Lines) {
		t.Fatalf("lines: want=%d got=%d", len(set.Lines), len(lines))
	}

	var hashed types.User
	if err := db.Where("email = ?", "ada@example.com").First(&hashed).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed.PasswordHash), []byte("analytical-engine")) != nil {
		t.Fatalf("password hash does not verify")
	}
}
