// Package routes wires the catalogue core to its HTTP consumer surface.
// This is the seam the presentation layer talks to: a catalogue document
// endpoint and a poster byte endpoint.
package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/filmshelf/filmshelf/catalog"
	"github.com/filmshelf/filmshelf/dataset"
	"github.com/filmshelf/filmshelf/poster"
	"github.com/filmshelf/filmshelf/shelf"
)

type Server struct {
	Router *chi.Mux
	Shelf  *shelf.Service
	Log    zerolog.Logger
}

type ServerOptions struct {
	Shelf *shelf.Service
	Log   zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, Shelf: opts.Shelf, Log: opts.Log}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.Log.Error().Err(err).Msg("write health check response")
		}
	})

	r.Get("/api/catalogue", s.handleCatalogue)
	r.Get("/api/poster", s.handlePoster)

	return s
}

// catalogueResponse mirrors the decoded document in the shape the mobile
// client renders.
type catalogueResponse struct {
	UpdatedAt  string         `json:"updatedAt"`
	Categories []categoryView `json:"categories"`
}

type categoryView struct {
	Title string     `json:"title"`
	Items []itemView `json:"items"`
}

type itemView struct {
	Title    string `json:"title"`
	ImageRef string `json:"imageRef,omitempty"`
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	mode := shelf.ModeStrict
	if r.URL.Query().Get("mode") == string(shelf.ModePermissive) {
		mode = shelf.ModePermissive
	}

	doc, err := s.Shelf.LoadDataset(r.Context(), r.URL.Query().Get("name"), mode)
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		http.Error(w, "dataset not found", http.StatusNotFound)
		return
	case errors.Is(err, catalog.ErrMalformedPayload):
		s.Log.Error().Err(err).Msg("dataset malformed")
		http.Error(w, "dataset malformed", http.StatusBadGateway)
		return
	case err != nil:
		s.Log.Error().Err(err).Msg("load dataset")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(toResponse(doc)); err != nil {
		s.Log.Error().Err(err).Msg("encode catalogue response")
	}
}

func (s *Server) handlePoster(w http.ResponseWriter, r *http.Request) {
	ref := catalog.CleanImageRef(r.URL.Query().Get("url"))
	if ref == "" {
		http.Error(w, "missing or unusable url parameter", http.StatusBadRequest)
		return
	}

	body, err := s.Shelf.FetchImage(r.Context(), ref)
	if err != nil {
		if errors.Is(err, poster.ErrFetchFailed) {
			s.Log.Warn().Str("url", ref).Err(err).Msg("poster fetch failed")
			http.Error(w, "poster fetch failed", http.StatusBadGateway)
			return
		}
		s.Log.Error().Str("url", ref).Err(err).Msg("poster fetch")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(body))
	if _, err := w.Write(body); err != nil {
		s.Log.Error().Err(err).Msg("write poster response")
	}
}

func toResponse(doc catalog.Document) catalogueResponse {
	resp := catalogueResponse{
		UpdatedAt:  doc.UpdatedAt,
		Categories: make([]categoryView, 0, len(doc.Categories)),
	}
	for _, cat := range doc.Categories {
		cv := categoryView{Title: cat.Title, Items: make([]itemView, 0, len(cat.Items))}
		for _, it := range cat.Items {
			cv.Items = append(cv.Items, itemView{Title: it.Title, ImageRef: it.ImageRef})
		}
		resp.Categories = append(resp.Categories, cv)
	}
	return resp
}
