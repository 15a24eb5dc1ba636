package book

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookrest/internal/httpx"
	"bookrest/internal/logging"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HTTPHandler{service: service, logger: logger}
}

// List handles GET /books
// @Summary List books
// @Description Get every book in the collection
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.List())
}

// Get handles GET /books/{isbn}
// @Summary Get book by ISBN
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found", nil)
		return
	}

	book, found, err := h.service.Get(isbn)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !found {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, book)
}

// Insert handles POST /books
// @Summary Insert a book
// @Description Store a new book. Existing books are never overwritten.
// @Tags books
// @Accept json
// @Produce json
// @Param request body Insert true "Book to insert"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var req Insert
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	book, created, err := h.service.Insert(&req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !created {
		httpx.JSONError(w, r, http.StatusBadRequest, "ALREADY_EXISTS", "A book with this ISBN already exists", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, book)
}

// Delete handles DELETE /books/{isbn}
// @Summary Delete a book
// @Tags books
// @Param isbn path string true "Book ISBN"
// @Success 200 "OK"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	isbn := r.PathValue("isbn")
	if isbn == "" {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found", nil)
		return
	}

	deleted, err := h.service.Delete(isbn)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !deleted {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "ISBN not found", nil)
		return
	}
	httpx.Empty(w, http.StatusOK)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidArgument) {
		h.logger.Error("store precondition violated", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
	} else {
		h.logger.Error("book request failed", zap.Error(err), zap.String("request_id", httpx.RequestIDFrom(r)))
	}
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("POST /books", h.Insert)
	mux.HandleFunc("GET /books/{isbn}", h.Get)
	mux.HandleFunc("DELETE /books/{isbn}", h.Delete)
}
