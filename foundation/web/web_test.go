package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type signIn struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Lat      *float64 `json:"lat"`
	Name     *string  `json:"name" form:"full_name"`
}

func TestValidateFields(t *testing.T) {
	zero := 0.0
	blank := "  "

	err := ValidateFields(&signIn{Email: "a@b.c", Password: "x", Lat: &zero}, "Email,Password", "lat")
	assert.NoError(t, err)

	err = ValidateFields(&signIn{Email: " ", Name: &blank}, "Email", "Password", "full_name", "Lat")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "required fields are missing: email, password, name, lat", err.Error())

	err = ValidateFields(&signIn{}, "Nope")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

type checkout struct {
	VisitID int      `json:"visit_id"`
	Tags    []string `json:"tags"`
	Lon     *float64 `json:"lon"`
	secret  string
}

func TestValidateFieldsRequiredRule(t *testing.T) {
	zero := 0.0

	err := ValidateFields(&checkout{}, "VisitID,Tags,Lon")
	require.Error(t, err)
	assert.Equal(t, "required fields are missing: visit_id, tags, lon", err.Error())

	assert.NoError(t, ValidateFields(&checkout{VisitID: 3, Tags: []string{"a"}, Lon: &zero}, "VisitID,Tags,Lon"))

	// unexported fields are never matched
	err = ValidateFields(&checkout{secret: "x"}, "secret")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(errors.Wrap(NewRequestError(errors.New("x"), http.StatusNotFound), "ctx")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func do(app *App, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAppRespondsWithEnvelope(t *testing.T) {
	app := NewApp()
	app.Get("/items/:id", func(c *Context) error {
		id := c.GetParam(reflect.Int, "id").(int)
		limit, _ := c.GetQueryFunc(reflect.Int, "limit").(*int)
		if err := c.ValidParam(); err != nil {
			return c.RespondError(err)
		}
		if err := c.ValidQuery(); err != nil {
			return c.RespondError(err)
		}

		data := map[string]interface{}{"id": id}
		if limit != nil {
			data["limit"] = *limit
		}
		return c.Respond(map[string]interface{}{"data": data, "status": true}, http.StatusOK)
	})

	w := do(app, http.MethodGet, "/items/7?limit=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, map[string]interface{}{"id": 7.0, "limit": 5.0}, body["data"])

	w = do(app, http.MethodGet, "/items/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["status"])

	w = do(app, http.MethodGet, "/items/1?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppHidesInternalErrors(t *testing.T) {
	app := NewApp()
	app.Post("/fail", func(c *Context) error {
		return errors.New("db password leaked")
	})

	w := do(app, http.MethodPost, "/fail", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
}

func TestBindFunc(t *testing.T) {
	app := NewApp()
	app.Post("/sign-in", func(c *Context) error {
		var req signIn
		if err := c.BindFunc(&req, "Email,Password"); err != nil {
			return c.RespondError(err)
		}
		return c.Respond(map[string]interface{}{"data": req.Email, "status": true}, http.StatusOK)
	})

	w := do(app, http.MethodPost, "/sign-in", `{"email":"a@b.c","password":"pw"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.c", decode(t, w)["data"])

	w = do(app, http.MethodPost, "/sign-in", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "required fields are missing: password", decode(t, w)["error"])

	w = do(app, http.MethodPost, "/sign-in", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(c *Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	app := NewApp(mark("app"))
	app.Get("/", func(c *Context) error {
		return c.Respond(nil, http.StatusNoContent)
	}, mark("first"), mark("second"))

	w := do(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"app", "first", "second"}, order)
}
