package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/binstash/binstash/pkg/binstash"
)

// maxUploadBytes bounds the in-memory portion of multipart parsing.
const maxUploadBytes = 32 << 20

// AssetsHandler handles the asset upload and management endpoints.
type AssetsHandler struct {
	service binstash.Service
}

func NewAssetsHandler(service binstash.Service) *AssetsHandler {
	return &AssetsHandler{service: service}
}

// Routes returns the router for asset endpoints.
func (h *AssetsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadAsset)
	r.Get("/{id}", h.GetAsset)
	r.Delete("/{id}", h.DeleteAsset)
	r.Get("/{id}/download", h.DownloadAsset)
	r.Get("/{id}/url", h.GetDownloadURL)
	return r
}

// AssetResponse is the JSON shape for a stored asset.
type AssetResponse struct {
	FileName   string `json:"file_name"`
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	UploadDate string `json:"upload_date"`
}

func assetResponse(a *binstash.Asset) AssetResponse {
	return AssetResponse{
		FileName:   a.FileName,
		ID:         a.ID,
		URL:        a.StoragePath,
		UploadDate: a.UploadDate(),
	}
}

// UploadAsset stores the multipart "file" field as a new asset.
func (h *AssetsHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		writeError(w, r, "multipart form with a file field is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Missing file field", "error", err)
		writeError(w, r, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, r, "file name is required", http.StatusBadRequest)
		return
	}

	asset, err := h.service.CreateAsset(r.Context(), binstash.CreateAssetRequest{
		FileName: header.Filename,
		Data:     file,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	slog.Info("Asset uploaded", "asset_id", asset.ID, "storage_key", asset.StorageKey)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, assetResponse(asset))
}

// GetAsset returns the catalog record for an asset.
func (h *AssetsHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	render.JSON(w, r, assetResponse(asset))
}

// DeleteAsset removes the blob and the catalog row.
func (h *AssetsHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAsset(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	slog.Info("Asset deleted", "asset_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadAsset streams the blob content.
func (h *AssetsHandler) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	asset, rc, err := h.service.DownloadAsset(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(asset.FileName))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream asset", "asset_id", id, "error", err)
	}
}

// DownloadURLResponse carries a time-limited content URL.
type DownloadURLResponse struct {
	URL string `json:"url"`
}

// GetDownloadURL returns a presigned (or locator) URL for the content.
func (h *AssetsHandler) GetDownloadURL(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	url, err := h.service.GetDownloadURL(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	render.JSON(w, r, DownloadURLResponse{URL: url})
}

func (h *AssetsHandler) assetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, "asset id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeServiceError maps a service error to exactly one status code. No
// internal detail reaches the client; inconsistent outcomes are logged
// distinctly for operator reconciliation.
func (h *AssetsHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, binstash.ErrAssetNotFound):
		writeError(w, r, "asset not found", http.StatusNotFound)
	case errors.Is(err, binstash.ErrInvalidRequest):
		writeError(w, r, "invalid request", http.StatusBadRequest)
	case errors.Is(err, binstash.ErrInconsistent):
		slog.Error("Store inconsistency surfaced to client", "inconsistent", true, "error", err)
		writeError(w, r, "internal error", http.StatusInternalServerError)
	default:
		slog.Error("Asset operation failed", "error", err)
		writeError(w, r, "internal error", http.StatusInternalServerError)
	}
}

// ErrorResponse is the minimal JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, msg string, status int) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
