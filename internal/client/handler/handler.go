package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clientreg/internal/client/models"
	dErrors "clientreg/pkg/domain-errors"
	"clientreg/pkg/platform/httputil"
	"clientreg/pkg/requestcontext"
)

// Service defines the client operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Client, error)
	ListClients(ctx context.Context, page models.Page) ([]*models.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	SearchClientsByName(ctx context.Context, name string, page models.Page) ([]*models.Client, error)
	GetAddress(ctx context.Context, cep string) (*models.Address, error)
}

// Handler wires the client endpoints to the client service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the client endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/clients", h.HandleRegister)
		r.Get("/clients", h.HandleList)
		r.Get("/clients/{id}", h.HandleGet)
		r.Delete("/clients/{id}", h.HandleDelete)
		r.Get("/search", h.HandleSearch)
		r.Get("/addresses/{cep}", h.HandleGetAddress)
	})
}

// HandleRegister handles POST /api/v1/clients.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, err := httputil.DecodeJSON[models.RegisterRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	client, err := h.service.Register(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "client registration request completed",
		"request_id", requestcontext.RequestID(ctx),
		"client_id", client.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toClientResponse(client))
}

// HandleList handles GET /api/v1/clients?page=&limit=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context(), pageFromQuery(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toClientResponses(clients))
}

// HandleGet handles GET /api/v1/clients/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	client, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toClientResponse(client))
}

// HandleDelete handles DELETE /api/v1/clients/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Client deleted successfully"})
}

// HandleSearch handles GET /api/v1/search?name=&page=&limit=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	clients, err := h.service.SearchClientsByName(r.Context(), name, pageFromQuery(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toClientResponses(clients))
}

// HandleGetAddress handles GET /api/v1/addresses/{cep}.
func (h *Handler) HandleGetAddress(w http.ResponseWriter, r *http.Request) {
	addr, err := h.service.GetAddress(r.Context(), chi.URLParam(r, "cep"))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: httputil.ErrorBody{
				Code:    httputil.APICodeAddressNotFound,
				Message: "address not found",
			}})
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAddressResponse(*addr))
}

func parseClientID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid client id")
	}
	return id, nil
}

// pageFromQuery reads page and limit; anything missing, non-numeric or
// below one falls back to the defaults.
func pageFromQuery(r *http.Request) models.Page {
	q := r.URL.Query()
	return models.NewPage(atoiOrZero(q.Get("page")), atoiOrZero(q.Get("limit")))
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
