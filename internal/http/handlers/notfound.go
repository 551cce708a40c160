package handlers

import (
	"net/http"

	"github.com/hongminglow/club-finder/internal/http/respond"
)

// NotFound answers paths outside the route table.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "page not found: "+r.URL.Path)
}

// MethodNotAllowed answers known paths hit with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}
