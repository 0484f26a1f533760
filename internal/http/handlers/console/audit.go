package console

import (
	"net/http"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/http/response"
	"github.com/taxepay/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuditQuery audit trail filter parameters
type ListAuditQuery struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
	Action     string `form:"action"`
	Source     string `form:"source"`
	Resource   string `form:"resource"`
	ResourceID uint   `form:"resourceId"`
}

// ListAuditLogs returns the audit trail newest first
func (h *Handler) ListAuditLogs(c *gin.Context) {
	var query ListAuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	entries, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Action:     query.Action,
		Source:     query.Source,
		Resource:   query.Resource,
		ResourceID: query.ResourceID,
	})
	if err != nil {
		shared.RespondError(c, http.StatusInternalServerError, "audit list failed", err)
		return
	}

	response.Success(c, gin.H{
		"entries": entries,
		"total":   total,
	})
}
