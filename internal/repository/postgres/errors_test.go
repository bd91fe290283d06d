package postgres

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"vms/backend/foundation/web"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "Acme Co", EscapeLike("Acme Co"))
	assert.Equal(t, `100\% \_real\_`, EscapeLike("100% _real_"))
	assert.Equal(t, `C:\\temp`, EscapeLike(`C:\temp`))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "vendor"))

	err := Wrap(sql.ErrNoRows, "vendor")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, web.StatusOf(err))

	err = Wrap(errors.New("connection reset"), "vendor")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusInternalServerError, web.StatusOf(err))
}
