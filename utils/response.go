package utils

import "github.com/gin-gonic/gin"

// JSONResponse defines the uniform structure for API responses.
// Code is 0 on success and a five-digit application code otherwise.
type JSONResponse struct {
	Code   int         `json:"code"`
	Detail string      `json:"detail,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, detail string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:   code,
		Detail: detail,
		Data:   data,
	})
}

// Success returns a 200 response carrying data.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "", data)
}

// Message returns a successful response carrying only a detail message.
func Message(ctx *gin.Context, status int, detail string) {
	Respond(ctx, status, 0, detail, nil)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, detail string) {
	Respond(ctx, status, code, detail, nil)
}
