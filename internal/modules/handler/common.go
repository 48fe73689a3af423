package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/modules/service"
)

// respondServiceErr translates the typed service errors into the documented
// status codes. Anything untyped is an internal failure with a generic body.
func respondServiceErr(c *gin.Context, err error) {
	var (
		validationErr  *service.ValidationError
		notFoundErr    *service.NotFoundError
		conflictErr    *service.ConflictError
		analysisErr    *service.AnalysisError
		persistenceErr *service.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, serializer.ValidationErr(validationErr.Msg, validationErr.Fields))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(notFoundErr.Msg))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, serializer.ConflictErr(conflictErr.Msg, conflictErr.MaterialCount))
	case errors.As(err, &analysisErr):
		c.JSON(http.StatusBadRequest, serializer.Err(http.StatusBadRequest, "audio analysis failed", err))
	case errors.As(err, &persistenceErr):
		c.JSON(http.StatusInternalServerError, serializer.Err(http.StatusInternalServerError, "failed to store file", err))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

// bindingDetails extracts per-field information from gin binding failures so
// validation responses can name the offending fields.
func bindingDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// Form-input coercion policy: optional numeric fields null out when absent,
// empty, or unparsable; they never fail the request. Strings normalize the
// literal "null" and "" to nil.

func normalizeString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return nil
	}
	return &v
}

func floatField(v string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

func intField(v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}
