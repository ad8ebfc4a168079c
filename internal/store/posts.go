package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vaughan-dsouza/myapp/internal/models"
)

var ErrNotFound = errors.New("post not found")

// PostRepository is everything the view-set needs from persistence.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id int64) (models.Post, error)
	Create(ctx context.Context, title, body string) (models.Post, error)
	Update(ctx context.Context, post models.Post) (models.Post, error)
	Delete(ctx context.Context, id int64) error
}

type PostStore struct {
	DB *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{DB: db}
}

// ---------------------- LIST ----------------------

func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}

	err := s.DB.SelectContext(ctx, &posts, `SELECT id, title, body FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// ---------------------- GET ONE ----------------------

func (s *PostStore) Get(ctx context.Context, id int64) (models.Post, error) {
	var post models.Post

	err := s.DB.GetContext(ctx, &post, `SELECT id, title, body FROM posts WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}

	return post, nil
}

// ---------------------- CREATE ----------------------

func (s *PostStore) Create(ctx context.Context, title, body string) (models.Post, error) {
	post := models.Post{Title: title, Body: body}

	err := s.DB.QueryRowxContext(ctx, `
        INSERT INTO posts (title, body)
        VALUES ($1, $2)
        RETURNING id
    `, title, body).Scan(&post.ID)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// ---------------------- UPDATE ----------------------

// Update overwrites title and body of the post with post.ID and returns the
// stored row.
func (s *PostStore) Update(ctx context.Context, post models.Post) (models.Post, error) {
	var updated models.Post

	err := s.DB.GetContext(ctx, &updated, `
        UPDATE posts
        SET title=$1, body=$2
        WHERE id=$3
        RETURNING id, title, body
    `, post.Title, post.Body, post.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("update post %d: %w", post.ID, err)
	}

	return updated, nil
}

// ---------------------- DELETE ----------------------

func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
