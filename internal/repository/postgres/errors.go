package postgres

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"vms/backend/foundation/web"
)

var ErrNotFound = errors.New("not found")

// NotFound wraps ErrNotFound with what was looked up, as a 404.
func NotFound(what string) error {
	return web.NewRequestError(errors.Wrap(ErrNotFound, what), http.StatusNotFound)
}

// Wrap turns sql.ErrNoRows into a 404 and anything else into a 500.
func Wrap(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(what)
	}
	return web.NewRequestError(errors.Wrap(err, what), http.StatusInternalServerError)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
