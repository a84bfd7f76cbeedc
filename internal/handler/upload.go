// Copyright (c) 2026 MyBlog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/theminimize/myblog/internal/config"
	"github.com/theminimize/myblog/internal/middleware"
	"github.com/theminimize/myblog/internal/model"
	"github.com/theminimize/myblog/internal/service"
)

// MaxUploadSize limits post images to 10 MB.
const MaxUploadSize = 10 << 20

// UploadHandler stores post images on disk and serves them back.
type UploadHandler struct {
	cfg    *config.Config
	events *service.EventService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(cfg *config.Config, events *service.EventService) *UploadHandler {
	return &UploadHandler{cfg: cfg, events: events}
}

type uploadResponse struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

// Upload accepts a multipart image and writes it under the uploads
// directory with a generated name, keeping the original extension.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeUploadError(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("upload")
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "missing upload file")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		writeUploadError(w, http.StatusBadRequest, "upload too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.cfg.ExtensionAllowed(ext) {
		writeUploadError(w, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", ext))
		return
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0o755); err != nil {
		slog.Error("creating uploads directory", "error", err, "dir", h.cfg.UploadsDir)
		writeUploadError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.cfg.UploadsDir, name))
	if err != nil {
		slog.Error("creating upload file", "error", err, "name", name)
		writeUploadError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("writing upload file", "error", err, "name", name)
		writeUploadError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	if admin := middleware.GetAdmin(r); admin != nil {
		_ = h.events.LogSystemEvent(r.Context(), model.EventLevelInfo, "Image uploaded", &admin.ID, clientIP(r), map[string]any{
			"filename": name,
			"original": header.Filename,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(uploadResponse{URL: "/uploads/" + name})
}

// Serve streams a stored upload. The name is reduced to its base
// component so path traversal cannot escape the uploads directory.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.cfg.UploadsDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, path)
}

func writeUploadError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(uploadResponse{Error: message})
}
