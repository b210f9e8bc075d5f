package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database/books"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

func (ctl *BooksController) List(c *gin.Context) {
	items, err := ctl.store.ListBooks(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *BooksController) Search(c *gin.Context) {
	q, ok := searchQuery(c)
	if !ok {
		return
	}
	items, err := ctl.store.SearchBooks(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, list(items))
}

func (ctl *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := ctl.store.GetBook(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (ctl *BooksController) Create(c *gin.Context) {
	var in books.Input
	if !bindJSON(c, &in) {
		return
	}
	book, err := ctl.store.CreateBook(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (ctl *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch books.Patch
	if !bindJSON(c, &patch) {
		return
	}
	book, err := ctl.store.UpdateBook(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// --- Links ---

type authorIDsRequest struct {
	AuthorIDs *[]uint `json:"authorIds"`
}

type categoryIDsRequest struct {
	CategoryIDs *[]uint `json:"categoryIds"`
}

type linkFunc func(ctx context.Context, bookID uint, ids []uint) (*catalog.AssociationResult, error)

func (ctl *BooksController) Authors(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := ctl.store.BookAuthors(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list book authors")
		return
	}
	c.JSON(http.StatusOK, list(rows))
}

func (ctl *BooksController) Categories(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := ctl.store.BookCategories(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "list book categories")
		return
	}
	c.JSON(http.StatusOK, list(rows))
}

func (ctl *BooksController) AddAuthors(c *gin.Context) {
	ctl.authorLinks(c, ctl.store.AddAuthorsToBook, "add book authors")
}

func (ctl *BooksController) RemoveAuthors(c *gin.Context) {
	ctl.authorLinks(c, ctl.store.RemoveAuthorsFromBook, "remove book authors")
}

func (ctl *BooksController) AddCategories(c *gin.Context) {
	ctl.categoryLinks(c, ctl.store.AddCategoriesToBook, "add book categories")
}

func (ctl *BooksController) RemoveCategories(c *gin.Context) {
	ctl.categoryLinks(c, ctl.store.RemoveCategoriesFromBook, "remove book categories")
}

func (ctl *BooksController) authorLinks(c *gin.Context, fn linkFunc, context string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req authorIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AuthorIDs == nil {
		respondBadRequest(c, "authorIds is required")
		return
	}
	respondLinks(c, fn, id, *req.AuthorIDs, context)
}

func (ctl *BooksController) categoryLinks(c *gin.Context, fn linkFunc, context string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req categoryIDsRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CategoryIDs == nil {
		respondBadRequest(c, "categoryIds is required")
		return
	}
	respondLinks(c, fn, id, *req.CategoryIDs, context)
}

func respondLinks(c *gin.Context, fn linkFunc, bookID uint, ids []uint, context string) {
	result, err := fn(c.Request.Context(), bookID, ids)
	if err != nil {
		respondServiceError(c, err, context)
		return
	}
	c.JSON(http.StatusOK, result)
}
