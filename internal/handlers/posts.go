package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/vaughan-dsouza/myapp/internal/events"
	"github.com/vaughan-dsouza/myapp/internal/serializers"
	"github.com/vaughan-dsouza/myapp/internal/store"
	"github.com/vaughan-dsouza/myapp/internal/utils"
)

const (
	detailNotFound    = "Not found."
	detailServerError = "A server error occurred."
)

// PostViewSet serves the standard list/retrieve/create/update/destroy
// actions for posts. Routes are attached by the router package.
type PostViewSet struct {
	Repo      store.PostRepository
	Publisher events.Publisher
	Log       logrus.FieldLogger
}

func NewPostViewSet(repo store.PostRepository, pub events.Publisher, log logrus.FieldLogger) *PostViewSet {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &PostViewSet{Repo: repo, Publisher: pub, Log: log}
}

// ---------------------- LIST ----------------------

func (h *PostViewSet) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, serializers.SerializeMany(posts))
}

// ---------------------- GET ONE ----------------------

func (h *PostViewSet) Retrieve(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, detailNotFound)
		return
	}

	post, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, serializers.Serialize(post))
}

// ---------------------- CREATE ----------------------

func (h *PostViewSet) Create(w http.ResponseWriter, r *http.Request) {
	raw, err := utils.DecodeJSON(w, r)
	if err != nil {
		return
	}

	in, err := serializers.Deserialize(raw, false)
	if err != nil {
		h.invalid(w, r, err)
		return
	}

	post, err := h.Repo.Create(r.Context(), *in.Title, *in.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.publish(r, events.New(events.PostCreated, post.ID, &post))
	utils.JSON(w, http.StatusCreated, serializers.Serialize(post))
}

// ---------------------- UPDATE ----------------------

func (h *PostViewSet) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *PostViewSet) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *PostViewSet) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := postID(r)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, detailNotFound)
		return
	}

	// the object is looked up before the payload is read, so an unknown id
	// is a 404 even when the body is invalid
	post, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	raw, err := utils.DecodeJSON(w, r)
	if err != nil {
		return
	}

	in, err := serializers.Deserialize(raw, partial)
	if err != nil {
		h.invalid(w, r, err)
		return
	}

	post, err = h.Repo.Update(r.Context(), in.Apply(post))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.publish(r, events.New(events.PostUpdated, post.ID, &post))
	utils.JSON(w, http.StatusOK, serializers.Serialize(post))
}

// ---------------------- DELETE ----------------------

func (h *PostViewSet) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, detailNotFound)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.publish(r, events.New(events.PostDeleted, id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------- helpers ----------------------

func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *PostViewSet) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, detailNotFound)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"request_id": utils.RequestID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}).WithError(err).Error("post request failed")
	utils.JSONError(w, http.StatusInternalServerError, detailServerError)
}

func (h *PostViewSet) invalid(w http.ResponseWriter, r *http.Request, err error) {
	var ve serializers.ValidationError
	if errors.As(err, &ve) {
		utils.JSON(w, http.StatusBadRequest, ve)
		return
	}
	h.fail(w, r, err)
}

// publish is best effort: the write is already committed.
func (h *PostViewSet) publish(r *http.Request, e events.Event) {
	if err := h.Publisher.Publish(r.Context(), e); err != nil {
		h.Log.WithFields(logrus.Fields{
			"request_id": utils.RequestID(r.Context()),
			"event":      e.Type,
			"post_id":    e.PostID,
		}).WithError(err).Warn("publish post event")
	}
}

func (h *PostViewSet) Name() string { return "Post" }
