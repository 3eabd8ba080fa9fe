package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/KOMKZ/go-yogan-container/validator"
)

// Parse binds uri, query and body parameters into req in one call.
// uri and query binding failures are ignored so a DTO can tag only the
// sources it actually uses; a malformed JSON body is an error.
// DTOs implementing validator.Validatable are validated after binding,
// ozzo field errors come back as a single layered error.
func Parse(c *gin.Context, req any) error {
	_ = c.ShouldBindUri(req)
	_ = c.ShouldBindQuery(req)

	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			return err
		}
	}

	if v, ok := req.(validator.Validatable); ok {
		return validator.ValidateRequest(v)
	}
	return nil
}
