package console

import (
	"net/http"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/http/response"
	"github.com/taxepay/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOperatorsQuery operator registry filter parameters
type ListOperatorsQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// ListOperators returns registered economic operators
func (h *Handler) ListOperators(c *gin.Context) {
	var query ListOperatorsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	operators, total, err := h.OperatorRepo.List(repository.OperatorListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
		Status:   query.Status,
	})
	if err != nil {
		shared.RespondError(c, http.StatusInternalServerError, "operator list failed", err)
		return
	}

	response.Success(c, gin.H{
		"operators": operators,
		"total":     total,
	})
}
