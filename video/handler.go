package video

import (
	"errors"
	"net/http"

	"obiabedidi/utils"

	"github.com/julienschmidt/httprouter"
)

// InfoHandler serves GET /api/videos/info?url=.
func (r *Resolver) InfoHandler(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	raw := req.URL.Query().Get("url")
	if raw == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "url is required")
		return
	}
	info, err := r.Info(req.Context(), raw)
	if errors.Is(err, ErrUnsupportedURL) {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.RespondWithErr(w, req, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, info)
}
