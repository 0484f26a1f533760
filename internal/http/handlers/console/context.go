package console

import (
	handlershared "github.com/taxepay/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// operatorScope returns the operator id the caller is restricted to,
// zero when the caller may see every operator.
func operatorScope(c *gin.Context) uint {
	value, exists := c.Get("operator_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}
