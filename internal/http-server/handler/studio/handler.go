package studio

import (
	"encoding/json"
	"errors"
	"image/png"
	"net/http"

	"watermark-studio/internal/domain"
	"watermark-studio/internal/http-server/handler/studio/dto"
	"watermark-studio/internal/placement"
	studio_uc "watermark-studio/internal/usecase/studio"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

type StudioHandler struct {
	session  studioSession
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewStudioHandler(session studioSession, logger *zlog.Zerolog) *StudioHandler {
	return &StudioHandler{
		session:  session,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *StudioHandler) SetImages(w http.ResponseWriter, r *http.Request) {
	var req dto.SetImagesRequest
	if !h.decode(w, r, &req) {
		return
	}

	accepted, err := h.session.SetImages(req.Paths)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.logger.Info().Int("count", len(accepted)).Msg("Image list replaced")
	h.respondJSON(w, http.StatusOK, dto.ImagesResponse{Paths: accepted})
}

func (h *StudioHandler) GetImages(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.ImagesResponse{Paths: h.session.Images()})
}

func (h *StudioHandler) SelectPreview(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectPreviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.SelectPreview(req.Path); err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.logger.Info().Str("path", req.Path).Msg("Preview image selected")
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudioHandler) SetSurface(w http.ResponseWriter, r *http.Request) {
	var req dto.SurfaceRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.session.SetSurface(req.Width, req.Height)
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudioHandler) GetSpec(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, specResponse(h.session.Spec()))
}

func (h *StudioHandler) UpdateSpec(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSpecRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.applySpecUpdate(req)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, specResponse(h.session.Spec()))
}

func (h *StudioHandler) applySpecUpdate(req dto.UpdateSpecRequest) error {
	if req.Text != nil {
		if err := h.session.SetText(*req.Text); err != nil {
			return err
		}
	}
	if req.Opacity != nil {
		if err := h.session.SetOpacity(*req.Opacity); err != nil {
			return err
		}
	}
	if req.Scale != nil {
		if err := h.session.SetScale(*req.Scale); err != nil {
			return err
		}
	}
	if req.NormX != nil || req.NormY != nil {
		anchor := h.session.Spec().Anchor
		x, y := anchor.X, anchor.Y
		if req.NormX != nil {
			x = *req.NormX
		}
		if req.NormY != nil {
			y = *req.NormY
		}
		if err := h.session.SetAnchor(x, y); err != nil {
			return err
		}
	}
	return nil
}

func (h *StudioHandler) Press(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, h.session.Press)
}

func (h *StudioHandler) Move(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, h.session.Move)
}

func (h *StudioHandler) Release(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Release(); err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, specResponse(h.session.Spec()))
}

func (h *StudioHandler) pointer(w http.ResponseWriter, r *http.Request, apply func(x, y float64) error) {
	var req dto.PointerRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := apply(req.X, req.Y); err != nil {
		h.respondSessionError(w, err)
		return
	}

	// The updated spec goes straight back so the binding can redraw on
	// the same frame.
	h.respondJSON(w, http.StatusOK, specResponse(h.session.Spec()))
}

func (h *StudioHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req dto.PresetRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.ApplyPreset(placement.Position(req.Position)); err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, specResponse(h.session.Spec()))
}

func (h *StudioHandler) GetJobConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.session.JobConfig()
	h.respondJSON(w, http.StatusOK, dto.JobConfigResponse{
		ExportDir: cfg.OutputDir,
		Format:    string(cfg.Format),
		NameRule:  string(cfg.NamingRule),
		Prefix:    cfg.Prefix,
		Suffix:    cfg.Suffix,
	})
}

func (h *StudioHandler) SetJobConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.JobConfigRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.session.SetJobConfig(domain.ExportJobConfig{
		OutputDir:  req.ExportDir,
		Format:     domain.OutputFormat(req.Format),
		NamingRule: domain.NamingRule(req.NameRule),
		Prefix:     req.Prefix,
		Suffix:     req.Suffix,
	})
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StudioHandler) RenderPreview(w http.ResponseWriter, r *http.Request) {
	img, err := h.session.RenderPreview()
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		h.logger.Error().Err(err).Msg("Failed to stream preview")
	}
}

func (h *StudioHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.respondError(w, http.StatusBadRequest, "path query parameter is required", nil)
		return
	}

	img, err := h.session.ThumbnailFor(path)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		h.logger.Error().Err(err).Str("path", path).Msg("Failed to stream thumbnail")
	}
}

func (h *StudioHandler) Export(w http.ResponseWriter, r *http.Request) {
	report, err := h.session.Export(r.Context())
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	resp := dto.ExportResponse{
		RunID:     report.RunID,
		Succeeded: report.SuccessCount,
		Failures:  make([]dto.ExportFailureItem, 0, len(report.Failures)),
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, dto.ExportFailureItem{
			Path:  f.Path,
			Kind:  string(f.Kind),
			Cause: f.Cause,
		})
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *StudioHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := h.session.ListSnapshots()
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.SnapshotListResponse{Names: names})
}

func (h *StudioHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.session.SaveSnapshot(name); err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.logger.Info().Str("name", name).Msg("Snapshot saved")
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudioHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.session.LoadSnapshot(name); err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.logger.Info().Str("name", name).Msg("Snapshot loaded")
	h.respondJSON(w, http.StatusOK, specResponse(h.session.Spec()))
}

func (h *StudioHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.session.DeleteSnapshot(name); err != nil {
		h.respondSessionError(w, err)
		return
	}

	h.logger.Info().Str("name", name).Msg("Snapshot deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudioHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	return true
}

func (h *StudioHandler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, studio_uc.ErrExportInProgress):
		h.respondError(w, http.StatusConflict, "An export run is in progress", nil)
	case errors.Is(err, studio_uc.ErrNoImages):
		h.respondError(w, http.StatusPreconditionFailed, "No images loaded", nil)
	case errors.Is(err, studio_uc.ErrNoPreview):
		h.respondError(w, http.StatusPreconditionFailed, "No preview image selected", nil)
	case errors.Is(err, studio_uc.ErrUnknownPreset):
		h.respondError(w, http.StatusBadRequest, "Unknown preset position", nil)
	case errors.Is(err, studio_uc.ErrUnsupportedFile):
		h.respondError(w, http.StatusBadRequest, "Unsupported image file", nil)
	case errors.Is(err, domain.ErrDecode):
		h.respondError(w, http.StatusUnprocessableEntity, "Image cannot be decoded", err)
	case errors.Is(err, domain.ErrDirectory):
		h.respondError(w, http.StatusBadRequest, "Export directory rejected", err)
	case errors.Is(err, domain.ErrSnapshotRead):
		h.respondError(w, http.StatusNotFound, "Snapshot cannot be read", err)
	case errors.Is(err, domain.ErrSnapshotWrite):
		h.respondError(w, http.StatusBadRequest, "Snapshot cannot be written", err)
	default:
		h.logger.Error().Err(err).Msg("Unhandled session error")
		h.respondError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func specResponse(spec domain.WatermarkSpec) dto.SpecResponse {
	return dto.SpecResponse{
		Text:    spec.Text,
		Opacity: spec.OpacityPercent,
		Scale:   spec.ScalePercent,
		NormX:   spec.Anchor.X,
		NormY:   spec.Anchor.Y,
	}
}

func (h *StudioHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *StudioHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	h.respondJSON(w, status, resp)
}
