package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"storefront-engine/internal/coordinator"
	"storefront-engine/internal/domain"
)

// Dispatcher applies intents in order and returns the resulting snapshot.
// *coordinator.Loop implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent coordinator.Intent) (coordinator.Snapshot, error)
	Snapshot(ctx context.Context) (coordinator.Snapshot, error)
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	dispatcher Dispatcher
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(d Dispatcher, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		dispatcher: d,
		validate:   validator.New(),
		log:        log.With().Str("component", "http").Logger(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// respondWithIntentError maps coordinator errors to status codes.
func (h *HTTPHandler) respondWithIntentError(w http.ResponseWriter, intent string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: verr.Message, Fields: verr.Fields})
	case errors.Is(err, domain.ErrProductNotFound):
		h.respondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, coordinator.ErrLoopStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		h.log.Warn().Err(err).Str("intent", intent).Msg("intent not applied")
		h.respondWithError(w, http.StatusServiceUnavailable, "Storefront is unavailable")
	default:
		h.log.Error().Err(err).Str("intent", intent).Msg("intent failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to apply intent")
	}
}

func (h *HTTPHandler) dispatch(w http.ResponseWriter, r *http.Request, intent coordinator.Intent) {
	snap, err := h.dispatcher.Dispatch(r.Context(), intent)
	if err != nil {
		h.respondWithIntentError(w, intent.Name(), err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, snap)
}

// decode reads a JSON body into input and validates it, writing a 400 on failure.
func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, input interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

func productIDParam(r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		return 0, false
	}
	return productID, true
}

// --- Catalog & selection handlers ---

func (h *HTTPHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dispatcher.Snapshot(r.Context())
	if err != nil {
		h.respondWithIntentError(w, "snapshot", err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, snap)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dispatcher.Snapshot(r.Context())
	if err != nil {
		h.respondWithIntentError(w, "snapshot", err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, struct {
		Data     []string `json:"data"`
		Selected string   `json:"selected"`
	}{Data: snap.Categories, Selected: snap.SelectedCategory})
}

// SearchInput defines the expected input for changing the search term.
type SearchInput struct {
	Term string `json:"term" validate:"max=200"`
}

func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	var input SearchInput
	if !h.decode(w, r, &input) {
		return
	}
	h.dispatch(w, r, coordinator.Search{Term: input.Term})
}

// CategoryInput defines the expected input for selecting a category.
type CategoryInput struct {
	Category string `json:"category" validate:"required,max=100"`
}

func (h *HTTPHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if !h.decode(w, r, &input) {
		return
	}
	h.dispatch(w, r, coordinator.SelectCategory{Category: input.Category})
}

// ViewInput opens a product detail view; a null product_id closes it.
type ViewInput struct {
	ProductID *int64 `json:"product_id" validate:"omitempty,gt=0"`
}

func (h *HTTPHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var input ViewInput
	if !h.decode(w, r, &input) {
		return
	}
	h.dispatch(w, r, coordinator.ViewProduct{ProductID: input.ProductID})
}

func (h *HTTPHandler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	h.dispatch(w, r, coordinator.ViewProduct{ProductID: &productID})
}

// --- Cart handlers ---

// CartAddInput defines the expected input for adding to the cart.
// A missing or zero quantity adds a single unit.
type CartAddInput struct {
	ProductID  int64 `json:"product_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"gte=0"`
	FromDetail bool  `json:"from_detail"`
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var input CartAddInput
	if !h.decode(w, r, &input) {
		return
	}
	h.dispatch(w, r, coordinator.AddToCart{ProductID: input.ProductID, Quantity: input.Quantity, FromDetail: input.FromDetail})
}

// CartQuantityInput sets an absolute quantity; values below 1 remove the line.
type CartQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (h *HTTPHandler) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	var input CartQuantityInput
	if !h.decode(w, r, &input) {
		return
	}
	h.dispatch(w, r, coordinator.UpdateCartQuantity{ProductID: productID, Quantity: *input.Quantity})
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	h.dispatch(w, r, coordinator.RemoveFromCart{ProductID: productID})
}

func (h *HTTPHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, coordinator.OpenCart{})
}

func (h *HTTPHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, coordinator.CloseCart{})
}

// --- Wishlist & review handlers ---

func (h *HTTPHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	h.dispatch(w, r, coordinator.ToggleWishlist{ProductID: productID})
}

// ReviewCreateInput defines the review form. Completeness is checked by the
// review engine so the user sees its inline message.
type ReviewCreateInput struct {
	Author  string `json:"author" validate:"max=100"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h *HTTPHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	var input ReviewCreateInput
	if !h.decode(w, r, &input) {
		return
	}
	intent := coordinator.SubmitReview{ProductID: productID, Author: input.Author, Rating: input.Rating, Comment: input.Comment}
	snap, err := h.dispatcher.Dispatch(r.Context(), intent)
	if err != nil {
		h.respondWithIntentError(w, intent.Name(), err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, snap)
}

// DispatchIntent accepts the generic intent envelope.
func (h *HTTPHandler) DispatchIntent(w http.ResponseWriter, r *http.Request) {
	var input IntentEnvelope
	if !h.decode(w, r, &input) {
		return
	}
	intent, err := input.ToIntent()
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.dispatch(w, r, intent)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/snapshot", h.GetSnapshot)
		r.Get("/categories", h.ListCategories)
		r.Put("/search", h.Search)
		r.Put("/category", h.SelectCategory)
		r.Put("/view", h.SetView)
		r.Post("/intents", h.DispatchIntent)

		r.Route("/products/{productId}", func(r chi.Router) {
			r.Get("/", h.ViewProduct)
			r.Post("/reviews", h.SubmitReview)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/items", h.AddToCart)
			r.Put("/items/{productId}", h.UpdateCartQuantity)
			r.Delete("/items/{productId}", h.RemoveFromCart)
			r.Post("/open", h.OpenCart)
			r.Post("/close", h.CloseCart)
		})

		r.Post("/wishlist/{productId}/toggle", h.ToggleWishlist)
	})
}
