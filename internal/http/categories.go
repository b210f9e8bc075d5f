package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/database/categories"
)

type CategoriesController struct {
	store CategoryStore
}

func NewCategoriesController(store CategoryStore) *CategoriesController {
	return &CategoriesController{store: store}
}

func (ctl *CategoriesController) List(c *gin.Context) {
	items, err := ctl.store.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *CategoriesController) Search(c *gin.Context) {
	q, ok := searchQuery(c)
	if !ok {
		return
	}
	items, err := ctl.store.SearchCategories(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "search categories")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *CategoriesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	category, err := ctl.store.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (ctl *CategoriesController) Create(c *gin.Context) {
	var in categories.Input
	if !bindJSON(c, &in) {
		return
	}
	category, err := ctl.store.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (ctl *CategoriesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch categories.Patch
	if !bindJSON(c, &patch) {
		return
	}
	category, err := ctl.store.UpdateCategory(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}
