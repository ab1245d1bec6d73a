package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"amazon_offers/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Get("/", s.getRoot)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/keywords", func(r chi.Router) {
			r.Get("/", handler(s.getV1Keywords))
			r.Post("/", handler(s.postV1Keywords))
			r.Delete("/{keyword}", handler(s.deleteV1Keyword))
		})
		r.Get("/status", handler(s.getV1Status))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
