package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Context is the per-request value handed to every Handler. Ctx is the
// request context; middleware may replace it (e.g. to attach claims).
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []string
	queryErrs []string
}

func NewContext(gc *gin.Context) *Context {
	return &Context{Context: gc, Ctx: gc.Request.Context()}
}

// Respond writes data as JSON with the given status.
func (c *Context) Respond(data interface{}, status int) error {
	if status == http.StatusNoContent {
		c.Status(status)
		return nil
	}
	c.JSON(status, data)
	return nil
}

// RespondError answers with the status carried by err, or 500.
func (c *Context) RespondError(err error) error {
	status := StatusOf(err)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
	}

	c.AbortWithStatusJSON(status, map[string]interface{}{
		"error":  message,
		"status": false,
	})
	return nil
}

// BindFunc binds the body (JSON, form or multipart, by content type) into
// request and checks that the listed fields are set. Fields may be passed
// separately or comma separated.
func (c *Context) BindFunc(request interface{}, required ...string) error {
	if err := c.ShouldBind(request); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}
	return ValidateFields(request, required...)
}

// GetParam reads a path parameter as the given kind. Parse failures are
// collected and reported by ValidParam; the zero value is returned instead.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	raw := c.Param(name)

	v, err := parse(kind, raw)
	if err != nil || raw == "" {
		c.paramErrs = append(c.paramErrs, fmt.Sprintf("invalid path parameter %q", name))
		return reflect.Zero(kindType(kind)).Interface()
	}
	return v
}

// GetQueryFunc reads an optional query parameter. It returns a pointer of the
// requested kind, or nil when the parameter is absent or malformed; malformed
// values are reported by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}

	v, err := parse(kind, raw)
	if err != nil {
		c.queryErrs = append(c.queryErrs, fmt.Sprintf("invalid query parameter %q", name))
		return nil
	}

	ptr := reflect.New(kindType(kind))
	ptr.Elem().Set(reflect.ValueOf(v))
	return ptr.Interface()
}

func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New(strings.Join(c.paramErrs, "; ")), http.StatusBadRequest)
}

func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New(strings.Join(c.queryErrs, "; ")), http.StatusBadRequest)
}

func kindType(kind reflect.Kind) reflect.Type {
	switch kind {
	case reflect.Int:
		return reflect.TypeOf(0)
	case reflect.Float64:
		return reflect.TypeOf(0.0)
	case reflect.Bool:
		return reflect.TypeOf(false)
	default:
		return reflect.TypeOf("")
	}
}

func parse(kind reflect.Kind, raw string) (interface{}, error) {
	switch kind {
	case reflect.Int:
		return strconv.Atoi(raw)
	case reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.String:
		return raw, nil
	default:
		return nil, errors.Errorf("unsupported kind %s", kind)
	}
}
