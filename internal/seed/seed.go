// Package seed はデモ用の著者と本を入れる。何度実行しても重複しない。
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zajil/internal/domain/model"
	"zajil/internal/repository"

	"github.com/shopspring/decimal"
)

type Result struct {
	AuthorsCreated int
	BooksCreated   int
}

func Run(ctx context.Context, authors repository.AuthorRepository, books repository.BookRepository, now time.Time, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var res Result

	created := make([]model.Author, 0, len(demoAuthors))
	for _, s := range demoAuthors {
		a, err := authors.FindByName(ctx, s.Name)
		if errors.Is(err, repository.ErrNotFound) {
			a, err = authors.Create(ctx, model.Author{Name: s.Name, Biography: s.Biography})
			if err != nil {
				return res, fmt.Errorf("create author %s: %w", s.Name, err)
			}
			res.AuthorsCreated++
			logger.Info("created author", slog.String("name", a.Name))
		} else if err != nil {
			return res, err
		}
		created = append(created, a)
	}

	for _, s := range demoBooks {
		author := created[s.Author]
		_, err := books.FindByNameAndAuthor(ctx, s.Name, author.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return res, err
		}

		published, err := time.Parse("2006-01-02", s.Published)
		if err != nil {
			return res, err
		}
		b, err := books.Create(ctx, model.Book{
			Name:           s.Name,
			Description:    s.Description,
			AuthorID:       author.ID,
			Publisher:      s.Publisher,
			Price:          decimal.RequireFromString(s.Price),
			PublishingDate: published,
			Category:       s.Category,
			Available:      true,
			Stock:          s.Stock,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return res, fmt.Errorf("create book %s: %w", s.Name, err)
		}
		res.BooksCreated++
		logger.Info("created book", slog.String("name", b.Name), slog.String("author", author.Name))
	}

	return res, nil
}
