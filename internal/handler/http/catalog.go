package http

import (
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/internal/validators"
	"github.com/go-chi/chi/v5"
)

// catalogHandler serves one catalog repository. Reads are open to every
// signed-in user, writes require an admin.
type catalogHandler[T any, P any] struct {
	repo      service.Repository[T, P]
	validator validators.Validator
	entity    string
}

func mountRepository[T any, P any](r chi.Router, pattern string, h *Handler, repo service.Repository[T, P]) {
	c := &catalogHandler[T, P]{repo: repo, validator: h.validator, entity: pattern[1:]}

	r.Route(pattern, func(r chi.Router) {
		r.Get("/", c.list)
		r.Get("/{id}", c.get)

		r.Group(func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Post("/", c.create)
			r.Patch("/{id}", c.update)
			r.Delete("/{id}", c.delete)
		})
	})
}

func (c *catalogHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	records, err := c.repo.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "catalogHandler.list", err)
		return
	}
	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func (c *catalogHandler[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := c.repo.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "catalogHandler.get", err)
		return
	}
	if record == nil {
		c.notFound(w, r, id)
		return
	}
	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (c *catalogHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var record T
	if err := decodeJSON(w, r, &record); err != nil {
		writeServiceError(w, r, "catalogHandler.create", err)
		return
	}
	if err := c.validator.Validate(ctx, record); err != nil {
		writeServiceError(w, r, "catalogHandler.create", err)
		return
	}

	created, err := c.repo.Add(ctx, record)
	if err != nil {
		writeServiceError(w, r, "catalogHandler.create", err)
		return
	}
	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (c *catalogHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var patch P
	if err := decodeJSON(w, r, &patch); err != nil {
		writeServiceError(w, r, "catalogHandler.update", err)
		return
	}
	if err := c.validator.Validate(ctx, patch); err != nil {
		writeServiceError(w, r, "catalogHandler.update", err)
		return
	}

	updated, err := c.repo.Update(ctx, id, patch)
	if err != nil {
		writeServiceError(w, r, "catalogHandler.update", err)
		return
	}
	if updated == nil {
		c.notFound(w, r, id)
		return
	}
	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

func (c *catalogHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	if err := c.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "catalogHandler.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *catalogHandler[T, P]) notFound(w http.ResponseWriter, r *http.Request, id string) {
	logger.FromRequest(r).Debug().Str("entity", c.entity).Str("id", id).Msg("record not found")
	utils.WriteError(w, c.entity+" not found", http.StatusNotFound)
}
