package gallery

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/rizkypratama/maintenance-portal/internal/session"
	"github.com/rizkypratama/maintenance-portal/internal/transport"
	"github.com/rizkypratama/maintenance-portal/pkg/logger"
)

const maxUploadBytes = 32 << 20

type ServiceAPI interface {
	Publish(ctx context.Context, userID string, dto CreateImageDTO, image *ImageUpload) (*Image, error)
	Update(ctx context.Context, imageID, userID, role string, dto UpdateImageDTO, image *ImageUpload) (*Image, error)
	Delete(ctx context.Context, imageID, userID, role string) error
	List(filter ListFilter) ([]*Image, error)
	Get(imageID string) (*Image, error)
	Stats() (*Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.Service.List(ListFilter{Category: r.URL.Query().Get("category")})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if images == nil {
		images = []*Image{}
	}
	h.WriteJSON(w, http.StatusOK, images)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	img, err := h.Service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, img)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.Logger.Error("Create: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}

	dto := CreateImageDTO{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
	}
	if desc := r.FormValue("description"); desc != "" {
		dto.Description = &desc
	}

	img, err := h.Service.Publish(r.Context(), claims.UserID, dto, imageFromForm(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, img)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.Logger.Error("Update: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}

	dto := UpdateImageDTO{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
	}
	if desc := r.FormValue("description"); desc != "" {
		dto.Description = &desc
	}

	img, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role, dto, imageFromForm(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, img)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func imageFromForm(r *http.Request) *ImageUpload {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil
	}
	return &ImageUpload{
		Reader:      file,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
}
