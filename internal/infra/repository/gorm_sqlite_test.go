package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"zajil/internal/domain/model"
	infrarepo "zajil/internal/infra/repository"
	repo "zajil/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =====================
// helper
// =====================

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

// テストごとに別の in-memory DB。接続を1本にして同じDBを見せる
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&model.Author{},
		&model.Book{},
		&model.User{},
		&model.AuthToken{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
		&model.Session{},
	))
	return gdb
}

func createBook(t *testing.T, gdb *gorm.DB, name string, price string, stock int64) model.Book {
	t.Helper()
	ctx := context.Background()

	a, err := infrarepo.NewAuthorGormRepository(gdb).Create(ctx, model.Author{Name: "author of " + name})
	require.NoError(t, err)

	b, err := infrarepo.NewBookGormRepository(gdb).Create(ctx, model.Book{
		Name:           name,
		AuthorID:       a.ID,
		Publisher:      "دار الشروق",
		Price:          decimal.RequireFromString(price),
		PublishingDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:       model.CategoryNovels,
		Available:      true,
		Stock:          stock,
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	})
	require.NoError(t, err)
	return b
}

func createUser(t *testing.T, gdb *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{
		Email:             email,
		PasswordHash:      "x",
		FullName:          "Test User",
		Wilaya:            "16",
		Address:           "addr",
		PostalCode:        "16000",
		PhoneNumber:       "0555000000",
		IsActive:          true,
		LastProfileUpdate: testNow,
		CreatedAt:         testNow,
		UpdatedAt:         testNow,
	}
	require.NoError(t, infrarepo.NewUserGormRepository(gdb).Create(context.Background(), u))
	return u
}

func newOrder(id string, userID *int64, created time.Time, wilaya string) model.Order {
	return model.Order{
		ID:          id,
		UserID:      userID,
		FullName:    "Guest",
		Email:       "guest@example.com",
		PhoneNumber: "0555",
		Address:     "addr",
		Wilaya:      wilaya,
		PostalCode:  "16000",
		Status:      model.OrderStatusPending,
		TotalPrice:  decimal.Zero,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// =====================
// Inventory
// =====================

func TestInventory_DecreaseStockIfEnough(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	b := createBook(t, gdb, "الأيام", "1500.00", 3)
	inv := infrarepo.NewInventoryGormRepository(gdb)

	ok, err := inv.DecreaseStockIfEnough(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inv.DecreaseStockIfEnough(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := infrarepo.NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock)
}

func TestInventory_SetStockMissingBook(t *testing.T) {
	gdb := openTestDB(t)
	err := infrarepo.NewInventoryGormRepository(gdb).SetStock(context.Background(), 999, 5)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// =====================
// Books / Authors
// =====================

func TestBooks_ListAvailableAndSearch(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	books := infrarepo.NewBookGormRepository(gdb)

	visible := createBook(t, gdb, "Nedjma", "1200.00", 5)
	hidden := createBook(t, gdb, "Hidden Book", "900.00", 5)
	hidden.Available = false
	require.NoError(t, books.Update(ctx, hidden))

	items, total, err := books.ListAvailable(ctx, repo.BookListQuery{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, visible.ID, items[0].ID)
	assert.Equal(t, "author of Nedjma", items[0].Author.Name)

	// 著者名でも当たる
	found, err := books.Search(ctx, "AUTHOR OF nedj", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = books.Search(ctx, "hidden", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

// % と _ はワイルドカードにならない
func TestBooks_SearchTreatsWildcardsLiterally(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	books := infrarepo.NewBookGormRepository(gdb)

	createBook(t, gdb, "Nedjma", "1200.00", 5)
	createBook(t, gdb, "Ajil", "800.00", 5)

	for _, q := range []string{"%", "_", "n_djma", "a%l"} {
		found, err := books.Search(ctx, q, 10)
		require.NoError(t, err)
		assert.Empty(t, found, q)
	}

	pct := createBook(t, gdb, "100% Dz", "500.00", 5)

	found, err := books.Search(ctx, "%", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pct.ID, found[0].ID)

	found, err = books.Search(ctx, "1_0", 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	items, total, err := books.ListAvailable(ctx, repo.BookListQuery{Author: "_", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, items)

	items, total, err = books.ListAvailable(ctx, repo.BookListQuery{Author: "of 100%", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, pct.ID, items[0].ID)
}

func TestBooks_UpdateDoesNotTouchStock(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	books := infrarepo.NewBookGormRepository(gdb)
	b := createBook(t, gdb, "Nedjma", "1200.00", 5)

	b.Name = "Nedjma (2e éd.)"
	b.Stock = 0
	require.NoError(t, books.Update(ctx, b))

	got, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nedjma (2e éd.)", got.Name)
	assert.Equal(t, int64(5), got.Stock)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("1200")))
}

func TestAuthors_DeleteRemovesBooks(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	b := createBook(t, gdb, "Nedjma", "1200.00", 5)
	authors := infrarepo.NewAuthorGormRepository(gdb)

	require.NoError(t, authors.Delete(ctx, b.AuthorID))

	_, err := infrarepo.NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, authors.Delete(ctx, b.AuthorID), repo.ErrNotFound)
}

// =====================
// Orders
// =====================

func TestOrderItems_CreateBulkRecomputesSubtotal(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	b := createBook(t, gdb, "Nedjma", "12.50", 5)

	orders := infrarepo.NewOrderGormRepository(gdb)
	require.NoError(t, orders.Create(ctx, newOrder("00000000-0000-4000-8000-000000000001", nil, testNow, "16")))

	saved, err := infrarepo.NewOrderItemGormRepository(gdb).CreateBulk(ctx, "00000000-0000-4000-8000-000000000001", []model.OrderItem{
		{BookID: b.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("12.50"), Subtotal: decimal.RequireFromString("1")},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Subtotal.Equal(decimal.RequireFromString("37.50")))

	o, err := orders.FindByID(ctx, "00000000-0000-4000-8000-000000000001")
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	require.NotNil(t, o.Items[0].Book)
	assert.Equal(t, "Nedjma", o.Items[0].Book.Name)
}

func TestOrderItems_DuplicateBookRejected(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	b := createBook(t, gdb, "Nedjma", "10.00", 5)
	require.NoError(t, infrarepo.NewOrderGormRepository(gdb).Create(ctx, newOrder("o-1", nil, testNow, "16")))

	_, err := infrarepo.NewOrderItemGormRepository(gdb).CreateBulk(ctx, "o-1", []model.OrderItem{
		{BookID: b.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		{BookID: b.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestOrders_ListAdminFiltersAndPages(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	orders := infrarepo.NewOrderGormRepository(gdb)

	for i := 0; i < 5; i++ {
		wilaya := "16"
		if i%2 == 1 {
			wilaya = "31"
		}
		o := newOrder(fmt.Sprintf("o-%d", i), nil, testNow.Add(time.Duration(i)*time.Minute), wilaya)
		require.NoError(t, orders.Create(ctx, o))
	}
	require.NoError(t, orders.UpdateStatus(ctx, "o-4", model.OrderStatusProcessing))

	got, total, err := orders.ListAdmin(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 2, Wilaya: "16"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 2)
	// 新しい順
	assert.Equal(t, "o-4", got[0].ID)
	assert.Equal(t, "o-2", got[1].ID)

	_, total, err = orders.ListAdmin(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 10, Status: string(model.OrderStatusProcessing)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	assert.ErrorIs(t, orders.UpdateStatus(ctx, "missing", model.OrderStatusProcessing), repo.ErrNotFound)
}

// =====================
// Users / Tokens
// =====================

func TestUsers_DuplicateEmail(t *testing.T) {
	gdb := openTestDB(t)
	createUser(t, gdb, "a@example.com")

	err := infrarepo.NewUserGormRepository(gdb).Create(context.Background(), &model.User{
		Email: "a@example.com", PasswordHash: "x", LastProfileUpdate: testNow,
	})
	assert.ErrorIs(t, err, repo.ErrDuplicate)
}

func TestUsers_UpdateProfileIfDue(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users := infrarepo.NewUserGormRepository(gdb)
	u := createUser(t, gdb, "a@example.com")

	// 登録直後は期限前
	u.FullName = "Too Early"
	ok, err := users.UpdateProfileIfDue(ctx, u, testNow.Add(-model.ProfileUpdateInterval))
	require.NoError(t, err)
	assert.False(t, ok)

	later := testNow.Add(model.ProfileUpdateInterval + time.Hour)
	u.FullName = "On Time"
	u.LastProfileUpdate = later
	ok, err = users.UpdateProfileIfDue(ctx, u, later.Add(-model.ProfileUpdateInterval))
	require.NoError(t, err)
	assert.True(t, ok)

	// 同じ期限でもう一度は通らない
	ok, err = users.UpdateProfileIfDue(ctx, u, later.Add(-model.ProfileUpdateInterval))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "On Time", got.FullName)
}

func TestUsers_DeleteKeepsOrders(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, gdb, "a@example.com")
	orders := infrarepo.NewOrderGormRepository(gdb)
	tokens := infrarepo.NewAuthTokenGormRepository(gdb)

	require.NoError(t, orders.Create(ctx, newOrder("o-1", &u.ID, testNow, "16")))
	require.NoError(t, tokens.Create(ctx, model.AuthToken{Key: "k", UserID: u.ID, CreatedAt: testNow}))

	require.NoError(t, infrarepo.NewUserGormRepository(gdb).Delete(ctx, u.ID))

	o, err := orders.FindByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Nil(t, o.UserID)

	_, err = tokens.FindByKey(ctx, "k")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTokens_OnePerUser(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	u := createUser(t, gdb, "a@example.com")
	tokens := infrarepo.NewAuthTokenGormRepository(gdb)

	require.NoError(t, tokens.Create(ctx, model.AuthToken{Key: "k1", UserID: u.ID, CreatedAt: testNow}))
	err := tokens.Create(ctx, model.AuthToken{Key: "k2", UserID: u.ID, CreatedAt: testNow})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	require.NoError(t, tokens.DeleteByUserID(ctx, u.ID))
	require.NoError(t, tokens.DeleteByUserID(ctx, u.ID))
	_, err = tokens.FindByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// =====================
// Sessions
// =====================

func TestSessions_CartRoundTripKeepsOrder(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	store := infrarepo.NewSessionGormStore(gdb, time.Hour)

	empty, err := store.LoadCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	cart := model.Cart{}.Set(9, 1).Set(2, 3)
	require.NoError(t, store.SaveCart(ctx, "s1", cart))
	require.NoError(t, store.SaveCart(ctx, "s1", cart.Set(9, 4)))

	got, err := store.LoadCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, int64(9), got.Lines[0].BookID)
	assert.Equal(t, int64(4), got.Lines[0].Quantity)
	assert.Equal(t, int64(2), got.Lines[1].BookID)

	other, err := store.LoadCart(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestSessions_ExpiredAreIgnoredAndSwept(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	expired := infrarepo.NewSessionGormStore(gdb, -time.Hour)

	require.NoError(t, expired.SaveCart(ctx, "old", model.Cart{}.Set(1, 1)))

	got, err := expired.LoadCart(ctx, "old")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	n, err := expired.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// =====================
// Tx / AuditLog
// =====================

func TestTxManager_RollsBackOnError(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	b := createBook(t, gdb, "Nedjma", "10.00", 5)

	err := infrarepo.NewTxManagerGorm(gdb).WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, b.ID, 5)
		require.NoError(t, err)
		require.True(t, ok)
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	got, err := infrarepo.NewBookGormRepository(gdb).FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Stock)
}

func TestAuditLogs_ListFiltersNewestFirst(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	audits := infrarepo.NewAuditLogGormRepository(gdb)

	for i, rid := range []string{"o-1", "o-2", "o-1"} {
		require.NoError(t, audits.Create(ctx, model.AuditLog{
			ActorUserID:  1,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   rid,
			AfterJSON:    fmt.Sprintf(`{"n":%d}`, i),
			CreatedAt:    testNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := audits.List(ctx, repo.AuditLogFilter{ResourceType: model.AuditResourceOrder, ResourceID: "o-1"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, `{"n":2}`, logs[0].AfterJSON)
}
