// Package response shapes every API reply through the proxyutil
// envelope so clients always see {code, message, data}. Degraded
// pipeline states answer through Success with a graceful body; Error is
// reserved for malformed requests and infrastructure faults.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"

	"github.com/xxxsen/docqa/internal/pkg/errcode"
)

type codeErr struct {
	code uint32
	msg  string
}

func (e codeErr) Error() string {
	return e.msg
}

func (e codeErr) Code() uint32 {
	return e.code
}

func AsCodeErr(code uint32, msg string) error {
	return codeErr{code: code, msg: msg}
}

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, 200, AsCodeErr(uint32(code), message))
}

// BadRequest rejects a malformed or incomplete request body.
func BadRequest(c *gin.Context, message string) {
	Error(c, errcode.ErrInvalid, message)
}
