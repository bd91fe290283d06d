package document

import (
	"net/http"

	"vms/backend/foundation/web"
	"vms/backend/internal/service/document"
)

type Controller struct {
	document Document
}

func NewController(document Document) *Controller {
	return &Controller{document}
}

func (uc Controller) Upload(c *web.Context) error {
	var request document.UploadRequest

	if err := c.BindFunc(&request, "DocumentType"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.document.Upload(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (uc Controller) GetList(c *web.Context) error {
	list, err := uc.document.List(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   list,
		"status": true,
	}, http.StatusOK)
}
