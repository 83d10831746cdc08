package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/college-roster/pkg/errors"
	"github.com/noah-isme/college-roster/pkg/response"
)

// pathID parses an integer path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.WrapKind(err, appErrors.ErrValidation, fmt.Sprintf("%s must be an integer, got %q", name, raw)))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
