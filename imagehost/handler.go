package imagehost

import (
	"context"
	"fmt"
	"net/http"

	"obiabedidi/errs"
	"obiabedidi/filemgr"
	"obiabedidi/metrics"
	"obiabedidi/utils"

	"github.com/julienschmidt/httprouter"
)

type Uploader interface {
	Upload(ctx context.Context, f filemgr.File) (string, error)
}

type Handler struct {
	uploader Uploader
	metrics  metrics.Recorder
}

// NewHandler serves uploads through u. A nil u answers 503.
func NewHandler(u Uploader, rec metrics.Recorder) *Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Handler{uploader: u, metrics: rec}
}

// UploadImage serves POST /api/uploads/image with the image in the "file" form field.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.uploader == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "image hosting is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, filemgr.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(filemgr.MaxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "failed to parse form")
		return
	}
	_, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "No file provided")
		return
	}

	f, err := filemgr.ReadFile(header, filemgr.PicPhoto, filemgr.MaxUploadBytes)
	if err != nil {
		utils.RespondWithErr(w, r, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err))
		return
	}
	if f, err = filemgr.Normalize(f); err != nil {
		utils.RespondWithErr(w, r, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err))
		return
	}

	url, err := h.uploader.Upload(r.Context(), f)
	if err != nil {
		h.metrics.RecordUploadFailure("cloudinary")
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"url": url})
}
