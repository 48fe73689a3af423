package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/modules/service"
)

type UploadHandler struct {
	svc service.UploadService
}

func NewUploadHandler(s service.UploadService) *UploadHandler {
	return &UploadHandler{svc: s}
}

// UploadTemp godoc
//
//	@Summary		Stage audio upload
//	@Description	Stage an audio file and return its temp file id plus probed metadata. The id expires unless a material references it.
//	@Tags			material
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Audio payload"
//	@Success		201	{object}	serializer.Response{data=service.TempUpload}
//	@Failure		400	{object}	serializer.Response
//	@Router			/materials/uploads [post]
func (h *UploadHandler) UploadTemp(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("file is required")))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("failed to read file", err))
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	entry, err := h.svc.SaveTemp(ctx, f, fh.Filename)
	if err != nil {
		respondServiceErr(c, err)
		return
	}

	md, err := h.svc.Analyze(ctx, entry.TempFileID)
	if err != nil {
		// Undecodable uploads are discarded immediately rather than left to
		// expire.
		_ = h.svc.Discard(ctx, entry.TempFileID)
		respondServiceErr(c, err)
		return
	}
	entry.Metadata = md

	c.JSON(http.StatusCreated, serializer.Response{Data: entry})
}
