package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/session"
	"github.com/rizkypratama/maintenance-portal/internal/transport"
	"github.com/rizkypratama/maintenance-portal/pkg/logger"
)

const maxUploadBytes = 32 << 20

type ServiceAPI interface {
	Submit(ctx context.Context, userID string, dto CreateReportDTO, file *FileUpload) (*Report, error)
	Review(reportID string, dto ReviewDTO) (*Report, error)
	Delete(ctx context.Context, reportID, userID, role string) error
	List(filter ListFilter) ([]*Report, error)
	Get(reportID string) (*Report, error)
	DownloadInfo(reportID string) (*DownloadInfo, error)
	Stats() (*Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI

	// fileClient fetches remote file bytes for the download endpoint.
	fileClient *http.Client
}

func NewHandler(service ServiceAPI, fileClient *http.Client) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if fileClient == nil {
		fileClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		fileClient:  fileClient,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
	}

	reports, err := h.Service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if reports == nil {
		reports = []*Report{}
	}

	h.WriteJSON(w, http.StatusOK, reports)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
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

	dto := CreateReportDTO{
		Title: r.FormValue("title"),
		Type:  r.FormValue("type"),
	}
	if desc := r.FormValue("description"); desc != "" {
		dto.Description = &desc
	}
	if rawDate := r.FormValue("date"); rawDate != "" {
		date, err := parseDate(rawDate)
		if err != nil {
			h.HandleServiceError(w, internal.NewValidationError("Tanggal laporan tidak valid", internal.ErrCodeInvalidDate))
			return
		}
		dto.Date = date
	}

	var upload *FileUpload
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		upload = &FileUpload{
			Reader:      file,
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	rep, err := h.Service.Submit(r.Context(), claims.UserID, dto, upload)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.ClaimsFromContext(r.Context()); !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto ReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}

	rep, err := h.Service.Review(chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
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

// Download streams the stored file with an attachment disposition. The
// caller's identity is resolved best-effort for the access log only;
// downloads are not gated on authentication. When fetching the remote
// bytes fails the endpoint falls back to returning the file reference
// as JSON so the client can retry directly against the CDN.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	downloader := internal.UserIDFromContext(r.Context())
	if downloader == "" {
		downloader = "anonymous"
	}

	info, err := h.Service.DownloadInfo(reportID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("file download", "report_id", reportID, "user", downloader)

	resp, err := h.fileClient.Get(info.FileURL)
	if err == nil && resp.StatusCode == http.StatusOK {
		defer resp.Body.Close()

		name := reportID
		if info.FileName != nil && *info.FileName != "" {
			name = *info.FileName
		}
		if info.FileType != nil && *info.FileType != "" {
			w.Header().Set("Content-Type", *info.FileType)
		} else {
			w.Header().Set("Content-Type", "application/octet-stream")
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

		if _, err := io.Copy(w, resp.Body); err != nil {
			h.Logger.Error("file stream interrupted", "error", err, "report_id", reportID)
		}
		return
	}
	if resp != nil {
		resp.Body.Close()
	}

	h.Logger.Warn("file fetch failed, falling back to reference response",
		"report_id", reportID,
		"error", err)
	h.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// parseDate accepts the date-only form value the dashboard sends, plus
// RFC3339 for API clients.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
