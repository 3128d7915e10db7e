package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getlevel "copilot-ops/http-server/level/get"
	"copilot-ops/http-server/operation/convert"
	"copilot-ops/http-server/operation/export"
	"copilot-ops/http-server/operation/get"
	"copilot-ops/http-server/operation/query"
	"copilot-ops/http-server/operation/remove"
	"copilot-ops/http-server/operation/update"
	"copilot-ops/http-server/operation/upload"
	"copilot-ops/http-server/operation/validate"
	"copilot-ops/internal/config"
	"copilot-ops/internal/middleware/auth"
)

func routes(cfg config.Config, log *slog.Logger, a *app) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Route("/copilot", func(r chi.Router) {
			r.Get("/get/{id}", get.New(log, a.copilot))
			r.Get("/query", query.New(log, a.copilot))
			r.Get("/export/{id}", export.New(log, a.export))

			r.Post("/validate", validate.New(log, a.copilot))
			r.Post("/editable", convert.Editable(log, a.copilot))
			r.Post("/qualify", convert.Qualify(log, a.copilot))

			r.Group(func(r chi.Router) {
				r.Use(auth.BasicAuth(cfg.Auth.Login, cfg.Auth.Password))

				r.Post("/upload", upload.New(log, a.copilot))
				r.Post("/update", update.New(log, a.copilot))
				r.Post("/delete", remove.New(log, a.copilot))
			})
		})

		r.Get("/arknights/level", getlevel.New(log, a.levels))
	})

	router.Handle("/metrics", a.metrics.Handler())

	return router
}
