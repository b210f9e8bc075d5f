package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/database/publishers"
)

type PublishersController struct {
	store PublisherStore
}

func NewPublishersController(store PublisherStore) *PublishersController {
	return &PublishersController{store: store}
}

func (ctl *PublishersController) List(c *gin.Context) {
	items, err := ctl.store.ListPublishers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list publishers")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *PublishersController) Search(c *gin.Context) {
	q, ok := searchQuery(c)
	if !ok {
		return
	}
	items, err := ctl.store.SearchPublishers(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "search publishers")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *PublishersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	publisher, err := ctl.store.GetPublisher(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get publisher")
		return
	}
	c.JSON(http.StatusOK, publisher)
}

func (ctl *PublishersController) Create(c *gin.Context) {
	var in publishers.Input
	if !bindJSON(c, &in) {
		return
	}
	publisher, err := ctl.store.CreatePublisher(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create publisher")
		return
	}
	c.JSON(http.StatusCreated, publisher)
}

func (ctl *PublishersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch publishers.Patch
	if !bindJSON(c, &patch) {
		return
	}
	publisher, err := ctl.store.UpdatePublisher(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err, "update publisher")
		return
	}
	c.JSON(http.StatusOK, publisher)
}
