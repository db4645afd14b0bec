// Package rest provides HTTP handlers for inventory operations.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/service"
	"github.com/teiprometal/inventory/pkg/web"
)

type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler backed by the given service.
func NewHandler(service service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Replace)
			r.Patch("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})
	r.Get("/api/v1/inventory/value", h.Valuation)

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, id, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// List returns the whole catalog, or the products whose name contains the q parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	h.logger.DebugContext(r.Context(), "Received request to list products", "query", query)
	catalog, err := h.service.List(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(catalog.Products))
	web.RespondJSON(w, h.logger, http.StatusOK, catalog)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var productCreateDto service.ProductCreateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &productCreateDto) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)

	created, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		if errors.Is(err, perrors.ErrDuplicateIdentifier) {
			h.logger.WarnContext(r.Context(), "Product ID already taken", "ID", productCreateDto.ID)
			web.RespondError(w, h.logger, http.StatusConflict, fmt.Sprintf("Product with ID %d already exists", productCreateDto.ID))
			return
		}
		h.respondServiceError(w, r, err, productCreateDto.ID, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Replace overwrites every field of an existing product.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var replaceDto service.ProductReplaceDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &replaceDto) {
		return
	}
	h.update(w, r, id, replaceDto.ToUpdate())
}

// Update changes the supplied fields of an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var updateDto service.ProductUpdateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &updateDto) {
		return
	}
	h.update(w, r, id, updateDto)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64, changes service.ProductUpdateDto) {
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	updated, err := h.service.Update(r.Context(), id, changes)
	if err != nil {
		h.respondServiceError(w, r, err, id, fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, id, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Valuation reports the total value of the catalog.
func (h *Handler) Valuation(w http.ResponseWriter, r *http.Request) {
	valuation, err := h.service.Valuation(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error computing valuation", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to compute inventory value")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, valuation)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError maps a service error to a status code:
// rejected fields are 400, a missing product is 404 and anything else is 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, id int64, fallback string) {
	switch {
	case perrors.IsValidation(err):
		h.logger.WarnContext(r.Context(), "Product rejected", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, perrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
	default:
		h.logger.ErrorContext(r.Context(), "Error handling product request", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fallback)
	}
}

// validationMessage names the rejected field without leaking the wrapping context.
func validationMessage(err error) string {
	for _, sentinel := range []error{
		perrors.ErrInvalidIdentifier,
		perrors.ErrInvalidName,
		perrors.ErrInvalidQuantity,
		perrors.ErrInvalidPrice,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "Invalid product"
}
