package router

import (
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/myapp/internal/utils"
)

var methodOrder = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// actions binds HTTP methods to view-set actions for one URL.
type actions map[string]http.HandlerFunc

type metadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Renders     []string `json:"renders"`
	Parses      []string `json:"parses"`
}

func (a actions) allows(method string) bool {
	switch method {
	case http.MethodOptions:
		return true
	case http.MethodHead:
		_, ok := a[http.MethodGet]
		return ok
	}
	_, ok := a[method]
	return ok
}

func (a actions) allow() string {
	var methods []string
	for _, m := range methodOrder {
		if a.allows(m) {
			methods = append(methods, m)
		}
	}
	return strings.Join(methods, ", ")
}

func (a actions) serve(name string) http.HandlerFunc {
	allow := a.allow()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)

		method := r.Method
		if method == http.MethodHead {
			method = http.MethodGet
		}

		if h, ok := a[method]; ok {
			h(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			utils.JSON(w, http.StatusOK, metadata{
				Name:    name,
				Renders: []string{"application/json"},
				Parses:  []string{"application/json"},
			})
			return
		}

		utils.JSONError(w, http.StatusMethodNotAllowed, `Method "`+r.Method+`" not allowed.`)
	}
}
