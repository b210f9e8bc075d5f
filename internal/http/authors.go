package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/database/authors"
)

type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

func (ctl *AuthorsController) List(c *gin.Context) {
	items, err := ctl.store.ListAuthors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *AuthorsController) Search(c *gin.Context) {
	q, ok := searchQuery(c)
	if !ok {
		return
	}
	items, err := ctl.store.SearchAuthors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "search authors")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *AuthorsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := ctl.store.GetAuthor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

func (ctl *AuthorsController) Create(c *gin.Context) {
	var in authors.Input
	if !bindJSON(c, &in) {
		return
	}
	author, err := ctl.store.CreateAuthor(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create author")
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (ctl *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch authors.Patch
	if !bindJSON(c, &patch) {
		return
	}
	author, err := ctl.store.UpdateAuthor(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}
