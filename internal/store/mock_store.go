package store

import (
	"context"
	"errors"
	"sync"

	"github.com/vaughan-dsouza/myapp/internal/models"
)

var ErrMockFailure = errors.New("mock: store failure")

// MockStore keeps posts in memory. Ids are assigned sequentially and never
// reused, like a BIGSERIAL column.
type MockStore struct {
	mu         sync.Mutex
	posts      []models.Post
	nextID     int64
	ShouldFail bool // every call returns ErrMockFailure
}

func NewMock() *MockStore {
	return &MockStore{nextID: 1}
}

func (m *MockStore) List(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return nil, ErrMockFailure
	}

	out := make([]models.Post, len(m.posts))
	copy(out, m.posts)
	return out, nil
}

func (m *MockStore) Get(ctx context.Context, id int64) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return models.Post{}, ErrMockFailure
	}

	if i := m.index(id); i >= 0 {
		return m.posts[i], nil
	}
	return models.Post{}, ErrNotFound
}

func (m *MockStore) Create(ctx context.Context, title, body string) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return models.Post{}, ErrMockFailure
	}

	post := models.Post{ID: m.nextID, Title: title, Body: body}
	m.nextID++
	m.posts = append(m.posts, post)
	return post, nil
}

func (m *MockStore) Update(ctx context.Context, post models.Post) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return models.Post{}, ErrMockFailure
	}

	i := m.index(post.ID)
	if i < 0 {
		return models.Post{}, ErrNotFound
	}
	m.posts[i] = post
	return post, nil
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return ErrMockFailure
	}

	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	m.posts = append(m.posts[:i], m.posts[i+1:]...)
	return nil
}

func (m *MockStore) index(id int64) int {
	for i, p := range m.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
