package repository

import (
	"context"
	"database/sql"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var bookColumns = []string{
	"id", "title", "author", "isbn", "publisher", "publication_year",
	"description", "category_id", "total_copies", "available_copies",
	"created_at", "updated_at",
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("id", "title", "author", "isbn", "publisher", "publication_year",
			"description", "category_id", "total_copies", "available_copies").
		Values(uuid.New(), req.Title, req.Author, req.ISBN, req.Publisher, req.PublicationYear,
			req.Description, req.CategoryID, req.TotalCopies, req.TotalCopies).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title")

	if search != "" {
		like := "%" + search + "%"
		q = q.Where(sq.Or{sq.ILike{"title": like}, sq.ILike{"author": like}, sq.ILike{"isbn": like}})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) UpdateBook(ctx context.Context, bookID string, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("isbn", req.ISBN).
		Set("publisher", req.Publisher).
		Set("publication_year", req.PublicationYear).
		Set("description", req.Description).
		Set("category_id", req.CategoryID).
		Set("total_copies", req.TotalCopies).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": bookID}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, bookID string) error {
	q, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	q, args, err := qb.Select("id", "name").
		From(categoriesTableName).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Category
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListLowStockBooks(ctx context.Context, threshold int) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Lt{"available_copies": threshold}).
		Where(sq.Gt{"available_copies": 0}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}
