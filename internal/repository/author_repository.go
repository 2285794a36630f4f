package repository

import (
	"context"

	"zajil/internal/domain/model"
)

type AuthorRepository interface {
	Create(ctx context.Context, a model.Author) (model.Author, error)
	FindByID(ctx context.Context, id int64) (model.Author, error)
	FindByName(ctx context.Context, name string) (model.Author, error)
	//著者の本もまとめて消える
	Delete(ctx context.Context, id int64) error
}
