package catalog

import (
	"net/http"

	"obiabedidi/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	cat *Catalog
}

func NewHandler(cat *Catalog) *Handler {
	return &Handler{cat: cat}
}

// List serves GET /api/catalog/recipes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	recipes := h.cat.List(ListFilter{
		Region:     q.Get("region"),
		Difficulty: q.Get("difficulty"),
		Tag:        q.Get("tag"),
		Search:     q.Get("search"),
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"recipes": recipes, "total": len(recipes)})
}

// Get serves GET /api/catalog/recipes/:id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipe, err := h.cat.Get(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// Search serves GET /api/catalog/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	query := SearchQuery{
		Ingredients:  q.Get("ingredients"),
		MaxCookTime:  q.Get("maxCookTime"),
		Difficulties: q.Get("difficulties"),
		Tags:         q.Get("tags"),
		SortBy:       q.Get("sortBy"),
		SortOrder:    q.Get("sortOrder"),
	}
	if v := query.Validate(); !v.IsValid {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"error": "invalid search parameters", "errors": v.Errors})
		return
	}

	recipes, err := h.cat.Search(query)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"recipes": recipes, "total": len(recipes), "filters": query})
}
