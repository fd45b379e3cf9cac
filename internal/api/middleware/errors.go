package middleware

import (
	"errors"

	"github.com/emicklei/go-restful/v3"
)

var (
	ErrEmptyBody      = errors.New("request body is empty")
	ErrInternalServer = errors.New("internal server error")
)

type ErrorResponse struct {
	Error  string `json:"error" description:"Error message"`
	Status int    `json:"status" description:"HTTP status code"`
}

// HandleError writes err as an ErrorResponse with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	if err == nil {
		err = ErrInternalServer
	}
	_ = resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error:  err.Error(),
		Status: status,
	})
}
