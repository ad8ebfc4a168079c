package handlers

import (
	"github.com/sirupsen/logrus"
	"github.com/vaughan-dsouza/myapp/internal/events"
	"github.com/vaughan-dsouza/myapp/internal/store"
)

type Handler struct {
	Posts *PostViewSet
}

func NewHandler(repo store.PostRepository, pub events.Publisher, log logrus.FieldLogger) *Handler {
	return &Handler{
		Posts: NewPostViewSet(repo, pub, log),
	}
}
