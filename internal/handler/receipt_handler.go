package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/consultjules/receipts/internal/service"
	"github.com/consultjules/receipts/internal/storage"
)

// ReceiptHandler serves receipt creation, listing, deletion and rendering.
type ReceiptHandler struct {
	service *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(service *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// Create handles POST /receipt/create.
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ReceiptInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Customer == "" {
		writeError(w, http.StatusBadRequest, "customer is required")
		return
	}

	id, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create receipt")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"receipt_id": id})
}

// Render handles GET /receipt/render/{id} and streams the JPEG.
func (h *ReceiptHandler) Render(w http.ResponseWriter, r *http.Request) {
	id, err := receiptID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	img, err := h.service.Render(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Write(img)
}

// List handles GET /receipt/all.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Delete handles DELETE /receipt/{id}.
func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := receiptID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete receipt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// receiptID parses the {id} route parameter.
func receiptID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
