package repository

import (
	"context"

	"zajil/internal/domain/model"
)

// 一覧検索
type BookListQuery struct {
	Page  int
	Limit int
	//著者名の部分一致（大文字小文字区別なし）
	Author string
	//完全一致
	Category string
}

// 本の永続化（保存・取得）だけを約束。取得系は Author も埋める
type BookRepository interface {
	//available な本だけ返す
	ListAvailable(ctx context.Context, q BookListQuery) ([]model.Book, int64, error)
	//本の名前か著者名に q を含む available な本を最大 limit 件
	Search(ctx context.Context, q string, limit int) ([]model.Book, error)

	FindByID(ctx context.Context, id int64) (model.Book, error)
	//行ロック（SELECT ... FOR UPDATE）付き。Tx内で使う
	FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error)
	FindByNameAndAuthor(ctx context.Context, name string, authorID int64) (model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
}
