package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/livebingo/backend/pkg/errorx"
	"github.com/livebingo/backend/pkg/ws"
	"github.com/livebingo/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (r *Router) newContext(req *http.Request) context.Context {
	ctx := xcontext.Inherit(req.Context(), r.ctx)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithStartTime(ctx, time.Now())
	return ctx
}

func (r *Router) runBefores(ctx context.Context) (context.Context, error) {
	var err error
	for _, f := range r.befores {
		if ctx, err = f(ctx); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}

func (r *Router) runAfters(ctx context.Context) (context.Context, error) {
	var err error
	for _, f := range r.afters {
		if ctx, err = f(ctx); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}

func (r *Router) runClosers(ctx context.Context) {
	for _, f := range r.closers {
		f(ctx)
	}
}

func wrapHandler[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(req)
		defer func() {
			writeResponse(ctx, w)
			r.runClosers(ctx)
		}()

		if req.Method != method {
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Method %s is not allowed", req.Method))
			return
		}

		var err error
		if ctx, err = r.runBefores(ctx); err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		var request Request
		if err := parseRequest(req, method, &request); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &request)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		ctx = xcontext.WithResponse(ctx, resp)
		if ctx, err = r.runAfters(ctx); err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}
	}
}

func wrapWebsocketHandler[Request any](r *Router, handler WebsocketHandlerFunc[Request]) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newContext(req)
		upgraded := false
		defer func() {
			if !upgraded {
				writeResponse(ctx, w)
			} else if err := xcontext.Error(ctx); err != nil {
				logError(ctx, err)
			}
			r.runClosers(ctx)
		}()

		var err error
		if ctx, err = r.runBefores(ctx); err != nil {
			ctx = xcontext.WithError(ctx, err)
			return
		}

		var request Request
		if err := parseRequest(req, http.MethodGet, &request); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
			ctx = xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			// The upgrader has already replied to the client.
			upgraded = true
			xcontext.Logger(ctx).Debugf("Cannot upgrade to websocket: %v", err)
			return
		}
		upgraded = true

		client := ws.NewClient(conn)
		defer client.Close()

		ctx = xcontext.WithWsClient(ctx, client)
		if err := handler(ctx, &request); err != nil {
			ctx = xcontext.WithError(ctx, err)
		}
	}
}

func parseRequest(req *http.Request, method string, v any) error {
	switch method {
	case http.MethodGet:
		query := map[string]any{}
		for key, values := range req.URL.Query() {
			if len(values) == 1 {
				query[key] = values[0]
			} else {
				query[key] = values
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           v,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(query)

	case http.MethodPost:
		if req.ContentLength == 0 {
			return nil
		}

		return json.NewDecoder(req.Body).Decode(v)
	}

	return nil
}
