package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.temporal.io/sdk/log"

	"marketplace-dashboard/internal/catalog"
	"marketplace-dashboard/internal/dashboard"
	"marketplace-dashboard/internal/modal"
)

type purchaseReq struct {
	ListingID string `json:"listingId"`
}

func newRouter(svc *dashboard.Service, metricsHandler http.Handler, logger log.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/listings", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.Listings())
		})

		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.StatCards())
		})

		// Buy trigger: resolve the listing and start a simulated purchase.
		r.Post("/purchases", func(w http.ResponseWriter, r *http.Request) {
			var req purchaseReq
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
				http.Error(w, "invalid body: {\"listingId\":\"...\"}", http.StatusBadRequest)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			rec, err := svc.Buy(ctx, req.ListingID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, rec)
		})

		r.Get("/toasts", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, svc.Toasts(time.Now().UTC()))
		})

		// Dismissal is idempotent; unknown ids are not an error.
		r.Delete("/toasts/{id}", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			if err := svc.Dismiss(ctx, chi.URLParam(r, "id")); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/toasts/{id}/fail", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			if err := svc.Fail(ctx, chi.URLParam(r, "id")); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusAccepted)
		})

		// Workflow view of a transaction; only the Temporal engine keeps one.
		r.Get("/toasts/{id}/workflow", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			rec, err := svc.Inspect(ctx, chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, rec)
		})
	})

	registerUIRoutes(r, svc, logger)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrListingNotFound), errors.Is(err, modal.ErrUnknownTx):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, modal.ErrEmptyTitle):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dashboard.ErrInspectUnsupported):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
