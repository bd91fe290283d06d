// Package web is a thin layer over gin that gives handlers an error return
// and a uniform response envelope.
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler handles a single request. Returned errors that were not already
// written to the client are answered with a 500.
type Handler func(c *Context) error

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// App is the entrypoint into the application. It embeds the gin engine so the
// raw gin API (Use, GET, Static, ...) stays available.
type App struct {
	*gin.Engine
	mw []Middleware
}

// NewApp creates an App with the given application-wide middleware.
func NewApp(mw ...Middleware) *App {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	return &App{
		Engine: engine,
		mw:     mw,
	}
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	a.Engine.Handle(method, path, func(gc *gin.Context) {
		c := NewContext(gc)

		if err := handler(c); err != nil {
			log.Error().Err(err).Str("path", path).Msg("unhandled handler error")
			if !gc.Writer.Written() {
				_ = c.RespondError(err)
			}
		}
	})
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}

// wrapMiddleware applies mw so that the first entry runs first.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if h := mw[i]; h != nil {
			handler = h(handler)
		}
	}
	return handler
}

func requestLogger() gin.HandlerFunc {
	return func(gc *gin.Context) {
		start := time.Now()
		gc.Next()

		ev := log.Info()
		if gc.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", gc.Request.Method).
			Str("path", gc.FullPath()).
			Int("status", gc.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
