package activity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts activity endpoints under /api/activity on the
// given router. The live stream is only mounted when hub is non-nil.
func RegisterRoutes(r chi.Router, store *Store, hub *Hub) {
	r.Route("/api/activity", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/events", handleEvents(store))
		if hub != nil {
			r.Get("/stream", hub.ServeHTTP)
		}
		r.Get("/{id}", handleGetByID(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := RenderFilter{
			Page: q.Get("page"),
			Mode: Mode(q.Get("mode")),
		}
		if v := q.Get("since"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.Since = &t
			}
		}
		filter.Limit, filter.Offset = paging(r)

		renders, err := store.List(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if renders == nil {
			renders = []Render{}
		}

		writeJSON(w, http.StatusOK, renders)
	}
}

func handleEvents(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := QueryFilter{
			RenderID: q.Get("render"),
			Kind:     Kind(q.Get("kind")),
			Network:  q.Get("network"),
			Widget:   q.Get("widget"),
		}
		filter.Limit, filter.Offset = paging(r)

		events, err := store.Query(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []Event{}
		}

		writeJSON(w, http.StatusOK, events)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		render, err := store.GetByID(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, render)
	}
}

func paging(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
