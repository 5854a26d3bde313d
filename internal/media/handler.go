package media

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmongo"
)

// 10 MB, enough for a phone camera photo
const maxUploadSize = 10 << 20

type MediaHandler struct {
	storage *dbmongo.MediaStorage
}

func NewMediaHandler(storage *dbmongo.MediaStorage) *MediaHandler {
	return &MediaHandler{storage: storage}
}

func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		common.WriteError(w, fmt.Errorf("file too large or malformed form: %w", common.ErrValidation))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		common.WriteError(w, fmt.Errorf("photo field is required: %w", common.ErrValidation))
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		common.WriteError(w, fmt.Errorf("unsupported media type %q: %w", mimeType, common.ErrValidation))
		return
	}

	media, err := h.storage.UploadPhoto(r.Context(), header.Filename, mimeType, userID, file)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, media)
}

func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := h.storage.DownloadPhoto(r.Context(), id, w); err != nil {
		common.WriteError(w, fmt.Errorf("photo %s: %w", id, common.ErrNotFound))
		return
	}
}

func (h *MediaHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/media", h.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/media/{id}", h.Download).Methods(http.MethodGet)
}
