package graphql

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
)

type ctxKey int

const responseWriterKey ctxKey = iota

// withResponseWriter lets resolvers set cookies on the HTTP response.
func withResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseWriterKey, w)
}

func responseWriterFrom(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responseWriterKey).(http.ResponseWriter)
	return w
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type Handler struct {
	schema *graphql.Schema
}

func NewHandler(schema *graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Serve executes a POSTed GraphQL request. Identity is read from the
// request context, so the auth middleware must run first.
// POST /graphql
func (h *Handler) Serve(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{
				"message":    "invalid request body: " + err.Error(),
				"extensions": gin.H{"code": CodeBadUserInput},
			}},
		})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": []gin.H{{
				"message":    "query is required",
				"extensions": gin.H{"code": CodeBadUserInput},
			}},
		})
		return
	}

	ctx := withResponseWriter(c.Request.Context(), c.Writer)
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	c.JSON(http.StatusOK, resp)
}
