package router

import (
	"net/http"

	"watermark-studio/internal/http-server/handler/studio"
	"watermark-studio/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	StudioHandler *studio.StudioHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/images", h.StudioHandler.GetImages)
			r.Post("/images", h.StudioHandler.SetImages)
			r.Post("/preview", h.StudioHandler.SelectPreview)
			r.Get("/preview.png", h.StudioHandler.RenderPreview)
			r.Get("/thumbnail", h.StudioHandler.Thumbnail)
			r.Post("/surface", h.StudioHandler.SetSurface)

			r.Get("/spec", h.StudioHandler.GetSpec)
			r.Patch("/spec", h.StudioHandler.UpdateSpec)
			r.Post("/anchor/preset", h.StudioHandler.ApplyPreset)

			r.Post("/pointer/press", h.StudioHandler.Press)
			r.Post("/pointer/move", h.StudioHandler.Move)
			r.Post("/pointer/release", h.StudioHandler.Release)

			r.Get("/export-config", h.StudioHandler.GetJobConfig)
			r.Put("/export-config", h.StudioHandler.SetJobConfig)
		})

		r.Post("/export", h.StudioHandler.Export)

		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", h.StudioHandler.ListSnapshots)
			r.Put("/{name}", h.StudioHandler.SaveSnapshot)
			r.Post("/{name}/load", h.StudioHandler.LoadSnapshot)
			r.Delete("/{name}", h.StudioHandler.DeleteSnapshot)
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
