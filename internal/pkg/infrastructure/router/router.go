package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"
)

type Option func(*cors.Options)

// WithAllowedOrigins restricts cross origin requests to the given origins
func WithAllowedOrigins(origins ...string) Option {
	return func(o *cors.Options) {
		if len(origins) > 0 {
			o.AllowedOrigins = origins
		}
	}
}

func New(serviceName string, options ...Option) *chi.Mux {
	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	}

	for _, opt := range options {
		opt(&corsOptions)
	}

	r.Use(cors.New(corsOptions).Handler)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))

	return r
}
