// Package router maps view-set actions onto REST URLs.
//
// For a resource registered under "posts" the routes are
//
//	GET, POST               /posts/
//	GET, PUT, PATCH, DELETE /posts/{id}/
//
// plus HEAD and OPTIONS wherever GET exists, and an API root at "/" that
// links every registered resource. Trailing slashes are optional.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/vaughan-dsouza/myapp/internal/utils"
)

// ViewSet implements the standard actions of one resource.
type ViewSet interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Retrieve(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	PartialUpdate(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
}

// Named view-sets choose the name reported by OPTIONS.
type Named interface {
	Name() string
}

var (
	ErrEmptyPrefix     = errors.New("router: empty prefix")
	ErrDuplicatePrefix = errors.New("router: prefix already registered")
)

type entry struct {
	prefix  string
	viewset ViewSet
}

// Router is a registry of view-sets. The zero value is ready to use.
type Router struct {
	registry []entry
}

func New() *Router {
	return &Router{}
}

// Register adds vs under prefix. Registration order is kept.
func (rt *Router) Register(prefix string, vs ViewSet) error {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ErrEmptyPrefix
	}
	for _, e := range rt.registry {
		if e.prefix == prefix {
			return fmt.Errorf("%w: %s", ErrDuplicatePrefix, prefix)
		}
	}

	rt.registry = append(rt.registry, entry{prefix: prefix, viewset: vs})
	return nil
}

// Extend merges another router's registry into this one, which is how an
// app-level router joins the global URL table.
func (rt *Router) Extend(other *Router) error {
	for _, e := range other.registry {
		if err := rt.Register(e.prefix, e.viewset); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Router) Prefixes() []string {
	out := make([]string, 0, len(rt.registry))
	for _, e := range rt.registry {
		out = append(out, e.prefix)
	}
	return out
}

// Handler builds the URL table. Middlewares wrap every route, including the
// not-found fallback.
func (rt *Router) Handler(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
	})

	r.HandleFunc("/", actions{
		http.MethodGet: rt.root,
	}.serve("Api Root"))

	for _, e := range rt.registry {
		name := viewName(e)

		r.HandleFunc("/"+e.prefix, actions{
			http.MethodGet:  e.viewset.List,
			http.MethodPost: e.viewset.Create,
		}.serve(name+" List"))

		r.HandleFunc("/"+e.prefix+"/{id}", actions{
			http.MethodGet:    e.viewset.Retrieve,
			http.MethodPut:    e.viewset.Update,
			http.MethodPatch:  e.viewset.PartialUpdate,
			http.MethodDelete: e.viewset.Destroy,
		}.serve(name+" Instance"))
	}

	return r
}

// root lists every resource with its absolute URL.
func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)

	links := make(map[string]string, len(rt.registry))
	for _, e := range rt.registry {
		links[e.prefix] = base + "/" + e.prefix + "/"
	}

	utils.JSON(w, http.StatusOK, links)
}

func viewName(e entry) string {
	if n, ok := e.viewset.(Named); ok {
		return n.Name()
	}
	words := strings.FieldsFunc(e.prefix, func(r rune) bool {
		return r == '-' || r == '_' || r == '/'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
