package seed_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"zajil/internal/domain/model"
	infrarepo "zajil/internal/infra/repository"
	"zajil/internal/repository"
	"zajil/internal/seed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
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
		&model.Author{}, &model.Book{}, &model.User{}, &model.Order{}, &model.OrderItem{},
		&model.InventoryAdjustment{}, &model.AuditLog{},
	))
	return gdb
}

func TestRun_IsIdempotent(t *testing.T) {
	gdb := openDB(t)
	ctx := context.Background()
	authors := infrarepo.NewAuthorGormRepository(gdb)
	books := infrarepo.NewBookGormRepository(gdb)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	first, err := seed.Run(ctx, authors, books, now, log)
	require.NoError(t, err)
	assert.Equal(t, 8, first.AuthorsCreated)
	assert.Equal(t, 12, first.BooksCreated)

	second, err := seed.Run(ctx, authors, books, now, log)
	require.NoError(t, err)
	assert.Zero(t, second.AuthorsCreated)
	assert.Zero(t, second.BooksCreated)

	list, total, err := books.ListAvailable(ctx, repository.BookListQuery{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	for _, b := range list {
		assert.True(t, b.Category.Valid(), b.Name)
		assert.True(t, b.Price.IsPositive(), b.Name)
	}
}

func demoDeps(gdb *gorm.DB) seed.DemoOrderDeps {
	return seed.DemoOrderDeps{
		Users:   infrarepo.NewUserGormRepository(gdb),
		Authors: infrarepo.NewAuthorGormRepository(gdb),
		Books:   infrarepo.NewBookGormRepository(gdb),
		Orders:  infrarepo.NewOrderGormRepository(gdb),
		Tx:      infrarepo.NewTxManagerGorm(gdb),
		NewID:   uuid.NewString,
	}
}

func TestDemoOrder_CreatesPendingOrderOnce(t *testing.T) {
	gdb := openDB(t)
	ctx := context.Background()
	deps := demoDeps(gdb)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	_, err := seed.Run(ctx, deps.Authors, deps.Books, now, log)
	require.NoError(t, err)

	first, err := seed.DemoOrder(ctx, deps, now, log)
	require.NoError(t, err)
	assert.True(t, first.UserCreated)
	assert.True(t, first.OrderCreated)

	order, err := deps.Orders.FindByID(ctx, first.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, seed.DemoUserEmail, order.Email)
	assert.Equal(t, "16", order.Wilaya)
	// 45.00×2 + 35.00×1
	assert.Equal(t, "125.00", order.TotalPrice.StringFixed(2))
	require.Len(t, order.Items, 2)
	for _, it := range order.Items {
		assert.True(t, it.Subtotal.Equal(model.LineSubtotal(it.Quantity, it.UnitPrice)))
	}

	// 在庫は減らさない
	b, err := deps.Books.FindByID(ctx, order.Items[0].BookID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), b.Stock)

	second, err := seed.DemoOrder(ctx, deps, now, log)
	require.NoError(t, err)
	assert.False(t, second.UserCreated)
	assert.False(t, second.OrderCreated)
	assert.Equal(t, first.OrderID, second.OrderID)

	var count int64
	require.NoError(t, gdb.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDemoOrder_RequiresCatalog(t *testing.T) {
	gdb := openDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := seed.DemoOrder(context.Background(), demoDeps(gdb), time.Now(), log)
	assert.Error(t, err)

	var count int64
	require.NoError(t, gdb.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
