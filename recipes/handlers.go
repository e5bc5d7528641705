package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"obiabedidi/errs"
	"obiabedidi/filemgr"
	"obiabedidi/models"
	"obiabedidi/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

const (
	maxPhotos       = 10
	maxMultipartMem = 32 << 20
)

type Handler struct {
	svc *Service
	// siteURL prefixes the recipe link printed on cards.
	siteURL string
}

func NewHandler(svc *Service, siteURL string) *Handler {
	return &Handler{svc: svc, siteURL: strings.TrimRight(siteURL, "/")}
}

// ListRecipes serves GET /api/recipes.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	pageSize, ok := utils.QueryInt(r, "pageSize", 0)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "pageSize must be a number")
		return
	}

	opts := ListOptions{
		Filter:      Filter(q.Get("filter")),
		ServingSize: models.ServingSize(q.Get("servingSize")),
		Difficulty:  models.Difficulty(q.Get("difficulty")),
		PageSize:    pageSize,
		Cursor:      q.Get("cursor"),
	}
	for _, m := range utils.SplitCSV(q.Get("mealTypes")) {
		opts.MealTypes = append(opts.MealTypes, models.MealType(m))
	}

	page, err := h.svc.ListRecipes(r.Context(), opts)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if page.Recipes == nil {
		page.Recipes = []models.Recipe{}
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}

// GetRecipe serves GET /api/recipes/:id.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipe, err := h.svc.GetRecipeByID(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// CreateRecipe serves POST /api/recipes. It accepts either a JSON body or a multipart
// form with the recipe JSON in the "recipe" field and images in "photos".
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := utils.UserFromContext(r.Context())
	if user == nil {
		utils.RespondWithErr(w, r, errs.ErrUnauthenticated)
		return
	}

	in, photos, err := readCreateRequest(r)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	created, err := h.svc.CreateRecipe(r.Context(), user, in, photos)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func readCreateRequest(r *http.Request) (models.Recipe, []Photo, error) {
	var in models.Recipe
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		body := io.LimitReader(r.Body, 1<<20)
		if err := json.NewDecoder(body).Decode(&in); err != nil {
			return in, nil, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
		return in, nil, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
		return in, nil, fmt.Errorf("%w: failed to parse form", errs.ErrInvalidInput)
	}
	if err := json.Unmarshal([]byte(r.FormValue("recipe")), &in); err != nil {
		return in, nil, fmt.Errorf("%w: recipe: %v", errs.ErrInvalidInput, err)
	}

	headers := r.MultipartForm.File["photos"]
	if len(headers) > maxPhotos {
		return in, nil, fmt.Errorf("%w: at most %d photos", errs.ErrInvalidInput, maxPhotos)
	}
	photos := make([]Photo, 0, len(headers))
	for _, hdr := range headers {
		f, err := filemgr.ReadFile(hdr, filemgr.PicPhoto, filemgr.MaxUploadBytes)
		if err != nil {
			return in, nil, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
		f, err = filemgr.Normalize(f)
		if err != nil {
			return in, nil, fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
		photos = append(photos, f)
	}
	return in, photos, nil
}

// RecordView serves POST /api/recipes/:id/views. It always answers 204.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.svc.IncrementViews(context.WithoutCancel(r.Context()), ps.ByName("id"))
	w.WriteHeader(http.StatusNoContent)
}

// RecipeCard serves GET /api/recipes/:id/card as a PDF.
func (h *Handler) RecipeCard(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipe, err := h.svc.GetRecipeByID(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	pdf, err := RenderCard(recipe, h.siteURL+"/recipes/"+recipe.ID)
	if err != nil {
		log.Error().Err(err).Str("recipe", recipe.ID).Msg("rendering recipe card")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=recipe-"+recipe.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// UserRecipes serves GET /api/users/:userid/recipes.
func (h *Handler) UserRecipes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, ok := utils.QueryInt(r, "limit", DefaultPageSize)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "limit must be a number")
		return
	}
	found, err := h.svc.GetUserRecipes(r.Context(), ps.ByName("userid"), limit)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"recipes": found})
}

// LiveHistory returns recent visible recipes for a new live subscriber, optionally of
// one author.
func (h *Handler) LiveHistory(ctx context.Context, authorID string) ([]any, error) {
	var found []models.Recipe
	var err error
	if authorID == "" {
		var page Page
		page, err = h.svc.ListRecipes(ctx, ListOptions{PageSize: 20})
		found = page.Recipes
	} else {
		found, err = h.svc.GetUserRecipes(ctx, authorID, 20)
	}
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(found))
	for _, rec := range found {
		if rec.Visible() {
			out = append(out, rec)
		}
	}
	return out, nil
}
