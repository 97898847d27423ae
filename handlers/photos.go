// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/palette/aggregate"
	"github.com/danielhkuo/palette/cliparse"
	"github.com/danielhkuo/palette/db"
	"github.com/danielhkuo/palette/metrics"
	"github.com/danielhkuo/palette/middleware"
	"github.com/danielhkuo/palette/models"
	"github.com/danielhkuo/palette/upload"
)

// multipart overhead allowed on top of the two files
const formOverhead = 1 << 20

type PhotoHandler struct {
	store    db.Store
	uploader upload.Uploader
	cfg      cliparse.Config
	metrics  *metrics.Metrics
}

func NewPhotoHandler(store db.Store, uploader upload.Uploader, cfg cliparse.Config, m *metrics.Metrics) *PhotoHandler {
	return &PhotoHandler{store: store, uploader: uploader, cfg: cfg, metrics: m}
}

// ListPhotos handles GET /photos
// Optional ?originalId= or ?author= narrows the list.
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	q := db.Query{}
	for _, field := range []string{"originalId", "author"} {
		if v := r.URL.Query().Get(field); v != "" {
			q = db.Where(field, v)
			break
		}
	}

	photos, err := h.store.ListPhotos(r.Context(), q)
	if err != nil {
		slog.Error("failed to list photos", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load photos")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, photos)
}

// ListPairs handles GET /pairs
func (h *PhotoHandler) ListPairs(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.ListPhotos(r.Context(), db.Query{})
	if err != nil {
		slog.Error("failed to list photos", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load pairs")
		return
	}

	pairs, err := aggregate.BuildComparisonPairs(photos)
	if err != nil {
		slog.Error("stored photos failed validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build pairs")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pairs)
}

// ListPairSlots handles GET /admin/pairs
func (h *PhotoHandler) ListPairSlots(w http.ResponseWriter, r *http.Request) {
	photos, err := h.store.ListPhotos(r.Context(), db.Query{})
	if err != nil {
		slog.Error("failed to list photos", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load pairs")
		return
	}

	slots, err := aggregate.GroupPairSlots(photos)
	if err != nil {
		slog.Error("stored photos failed validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build pairs")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, slots)
}

// CreatePhotos handles POST /admin/photos
// Adds one or both renditions of a subject from existing image URLs.
func (h *PhotoHandler) CreatePhotos(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePhotosRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.OriginalID = strings.TrimSpace(req.OriginalID)
	req.Title = strings.TrimSpace(req.Title)
	req.URLA = strings.TrimSpace(req.URLA)
	req.URLB = strings.TrimSpace(req.URLB)
	if msg, ok := validateRequest(req); !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}
	if req.URLA == "" && req.URLB == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one of urlA or urlB is required")
		return
	}

	urls := map[models.Author]string{
		models.AuthorA: req.URLA,
		models.AuthorB: req.URLB,
	}
	h.insertPhotos(w, r, req.OriginalID, req.Title, urls)
}

// UploadPhotos handles POST /admin/photos/upload
// Multipart fields: originalId, title, fileA, fileB (at least one file).
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.cfg.MaxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
				"Upload exceeds "+humanize.Bytes(uint64(h.cfg.MaxUploadSize))+" per file")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	originalID := strings.TrimSpace(r.FormValue("originalId"))
	title := strings.TrimSpace(r.FormValue("title"))
	if originalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "originalId is required")
		return
	}

	files := map[models.Author]*multipart.FileHeader{}
	for _, author := range models.Authors {
		if fhs := r.MultipartForm.File["file"+string(author)]; len(fhs) > 0 {
			files[author] = fhs[0]
		}
	}
	if len(files) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one of fileA or fileB is required")
		return
	}

	// Upload both sides before recording either
	var urls [2]string
	g, ctx := errgroup.WithContext(r.Context())
	for i, author := range models.Authors {
		fh, ok := files[author]
		if !ok {
			continue
		}
		g.Go(func() error {
			f, err := fh.Open()
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := h.uploader.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
			if err != nil {
				return err
			}
			urls[i] = url
			h.metrics.UploadAccepted(fh.Size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.discardUploads(r.Context(), urls[:])
		uploadError(w, err)
		return
	}

	ok := h.insertPhotos(w, r, originalID, title, map[models.Author]string{
		models.AuthorA: urls[0],
		models.AuthorB: urls[1],
	})
	if !ok {
		h.discardUploads(r.Context(), urls[:])
	}
}

// DeletePhoto handles DELETE /admin/photos/{id}
// Votes and ratings referencing the photo are kept.
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photoID := r.PathValue("id")
	if photoID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "photo id is required")
		return
	}

	err := h.store.DeletePhoto(r.Context(), photoID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Photo not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete photo", "photo_id", photoID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	slog.Info("photo deleted", "photo_id", photoID)
	w.WriteHeader(http.StatusNoContent)
}

// insertPhotos records one photo per non-empty URL, A before B, and writes
// the response. When an insert fails the photos already recorded are deleted.
func (h *PhotoHandler) insertPhotos(w http.ResponseWriter, r *http.Request, originalID, title string, urls map[models.Author]string) bool {
	pending := make([]models.Photo, 0, len(models.Authors))
	for _, author := range models.Authors {
		if urls[author] == "" {
			continue
		}
		p := models.Photo{
			URL:        urls[author],
			Author:     author,
			OriginalID: originalID,
			Title:      title,
		}
		if err := aggregate.ValidatePhoto(p); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, recordMessage(err))
			return false
		}
		pending = append(pending, p)
	}

	created := make([]models.Photo, 0, len(pending))
	for _, p := range pending {
		p, err := h.store.InsertPhoto(r.Context(), p)
		if err != nil {
			slog.Error("failed to insert photo", "original_id", originalID, "error", err)
			h.rollbackPhotos(r.Context(), created)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create photo")
			return false
		}
		h.metrics.PhotoCreated(p.Author)
		created = append(created, p)
	}

	slog.Info("photos created", "original_id", originalID, "count", len(created))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePhotosResponse{Photos: created})
	return true
}

// rollbackPhotos deletes photos recorded earlier in a failed request
func (h *PhotoHandler) rollbackPhotos(ctx context.Context, photos []models.Photo) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range photos {
		if err := h.store.DeletePhoto(ctx, p.ID); err != nil {
			slog.Error("failed to roll back photo", "photo_id", p.ID, "error", err)
		}
	}
}

// discardUploads removes stored images that will not be recorded.
// Remote hosts without delete support keep them.
func (h *PhotoHandler) discardUploads(ctx context.Context, urls []string) {
	remover, canRemove := h.uploader.(upload.Remover)
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if url == "" {
			continue
		}
		if !canRemove {
			slog.Warn("unrecorded upload left on image host", "url", url)
			continue
		}
		if err := remover.Remove(ctx, url); err != nil {
			slog.Error("failed to discard upload", "url", url, "error", err)
		}
	}
}

// uploadError maps uploader failures to HTTP responses
func uploadError(w http.ResponseWriter, err error) {
	var providerErr *upload.ProviderError
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, upload.ErrUnsupportedType):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &providerErr):
		slog.Error("image host rejected upload", "provider", providerErr.Provider, "code", providerErr.Code, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Image host rejected the upload")
	default:
		slog.Error("failed to upload photo", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to upload photo")
	}
}
