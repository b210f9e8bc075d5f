package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/entities"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditController struct {
	reader AuditReader
}

func NewAuditController(reader AuditReader) *AuditController {
	return &AuditController{reader: reader}
}

type AuditEventsResponse struct {
	Events []entities.AuditEvent `json:"events"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ListEvents returns recent audit events, newest first.
// GET /api/v1/audit/events?eventType=&entityType=&entityId=&userId=&limit=&offset=
func (ctl *AuditController) ListEvents(c *gin.Context) {
	filter, ok := parseAuditFilter(c)
	if !ok {
		return
	}

	events, total, err := ctl.reader.GetEvents(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, AuditEventsResponse{
		Events: list(events),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetEvent returns one audit event.
// GET /api/v1/audit/events/:id
func (ctl *AuditController) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	event, err := ctl.reader.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get audit event")
		return
	}
	c.JSON(http.StatusOK, event)
}

func parseAuditFilter(c *gin.Context) (audit.Filter, bool) {
	filter := audit.Filter{
		EventType:  entities.AuditEventType(c.Query("eventType")),
		EntityType: c.Query("entityType"),
		Limit:      defaultAuditLimit,
	}

	for name, dst := range map[string]*uint{"userId": &filter.UserID, "entityId": &filter.EntityID} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid "+name)
			return filter, false
		}
		*dst = uint(v)
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondBadRequest(c, "invalid limit")
			return filter, false
		}
		filter.Limit = min(limit, maxAuditLimit)
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			respondBadRequest(c, "invalid offset")
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}
