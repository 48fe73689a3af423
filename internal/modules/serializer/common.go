package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger installs the process logger so error responses can be logged with
// full detail while the client sees only the stable message.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`

	// Details lists offending fields for validation failures.
	Details []string `json:"details,omitempty"`
	// MaterialCount rides along on delete-blocked conflicts.
	MaterialCount *int64 `json:"materialCount,omitempty"`
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr hides datastore detail from the client but logs it in full.
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	if err != nil {
		log.Error("database error", zap.String("msg", msg), zap.Error(err))
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// ValidationErr names the offending fields.
func ValidationErr(msg string, fields []string) Response {
	res := Err(http.StatusBadRequest, msg, nil)
	res.Details = fields
	return res
}

// NotFoundErr
func NotFoundErr(msg string) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(http.StatusNotFound, msg, nil)
}

// ConflictErr carries the dependent-material count for delete-blocked
// conflicts; pass a negative count for plain uniqueness conflicts.
func ConflictErr(msg string, materialCount int64) Response {
	res := Err(http.StatusConflict, msg, nil)
	if materialCount >= 0 {
		res.MaterialCount = &materialCount
	}
	return res
}
