// internal/handlers/router.go
package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/handlers/registry"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/handlers/reports"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/handlers/workorders"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/repo"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/workorder"
)

func RegisterRoutes(mux *chi.Mux, svc *workorder.Service, r repo.Repo) {
	wo := workorders.New(svc)
	rp := reports.New(svc)
	rg := registry.New(r)

	mux.Route("/work-orders", func(sr chi.Router) {
		sr.Get("/", wo.List)
		sr.Post("/", wo.Create)
		sr.Get("/stats", wo.Stats)
		sr.Get("/transitions", wo.Requirements)
		sr.Post("/submit", wo.Submit)

		sr.Get("/{id}", wo.Get)
		sr.Patch("/{id}", wo.EditDetails)
		sr.Post("/{id}/confirm", wo.Confirm)
		sr.Post("/{id}/verify", wo.Verify)
		sr.Delete("/{id}", wo.SoftDelete)
		sr.Post("/{id}/restore", wo.Restore)
		sr.Delete("/{id}/permanent", wo.PermanentDelete)
		sr.Post("/{id}/executed", wo.MarkExecuted)
	})

	// Mobile/volunteer submission flow and the verification queue
	mux.Route("/reports", func(sr chi.Router) {
		sr.Post("/", rp.Submit)
		sr.Get("/pending", rp.Pending)
		sr.Delete("/{id}", rp.Reject)
	})

	// Hall and equipment registries
	mux.Route("/halls", func(sr chi.Router) {
		sr.Get("/", rg.ListHalls)
		sr.Post("/", rg.CreateHall)
		sr.Get("/{id}", rg.GetHall)
		sr.Put("/{id}", rg.UpdateHall)
		sr.Delete("/{id}", rg.DeleteHall)
	})
	mux.Route("/assets", func(sr chi.Router) {
		sr.Get("/", rg.ListAssets)
		sr.Post("/", rg.CreateAsset)
		sr.Get("/{id}", rg.GetAsset)
		sr.Put("/{id}", rg.UpdateAsset)
		sr.Delete("/{id}", rg.DeleteAsset)
	})
}
