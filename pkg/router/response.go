package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/xcontext"
)

type response struct {
	Code   int64  `json:"code"`
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code:   0,
		Status: http.StatusOK,
		Data:   data,
	}
}

func newErrorResponse(err error) response {
	errx := errorx.Public(err)
	return response{
		Code:   int64(errx.Code),
		Status: errx.Status(),
		Error:  errx.Message,
	}
}

// StatusCode returns the transport status of the request handled with ctx.
func StatusCode(ctx context.Context) int {
	if err := xcontext.Error(ctx); err != nil {
		return errorx.Public(err).Status()
	}

	return http.StatusOK
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	resp := newResponse(xcontext.Response(ctx))
	if err := xcontext.Error(ctx); err != nil {
		logError(ctx, err)
		resp = newErrorResponse(err)
	}

	if err := WriteJson(w, resp.Status, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

// logError logs errors which are not domain errors with their stack trace.
// They are hidden from clients.
func logError(ctx context.Context, err error) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		xcontext.Logger(ctx).Errorf("Unexpected error: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
