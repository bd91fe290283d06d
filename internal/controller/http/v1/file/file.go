package file

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Controller serves the files written by the local uploader.
type Controller struct {
	dir string
}

func NewController(dir string) *Controller {
	return &Controller{dir: dir}
}

// File answers GET <media prefix>/*filepath. Directory listings are never
// served.
func (cf Controller) File(c *gin.Context) {
	name := path.Clean("/" + c.Param("filepath"))
	if name == "/" || strings.HasSuffix(c.Param("filepath"), "/") {
		c.JSON(http.StatusNotFound, map[string]any{
			"error":  "file not found",
			"status": false,
		})
		return
	}

	full := filepath.Join(cf.dir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, map[string]any{
			"error":  "file not found",
			"status": false,
		})
		return
	}

	c.File(full)
}
