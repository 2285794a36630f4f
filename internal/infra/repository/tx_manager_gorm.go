package repository

import (
	"context"

	repo "zajil/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	books      repo.BookRepository
	inventory  repo.InventoryRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Books() repo.BookRepository           { return r.books }
func (r *txReposGorm) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fn がエラーを返したら全部ロールバック
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			books:      NewBookGormRepository(tx),
			inventory:  NewInventoryGormRepository(tx),
			orders:     NewOrderGormRepository(tx),
			orderItems: NewOrderItemGormRepository(tx),
			auditLogs:  NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
