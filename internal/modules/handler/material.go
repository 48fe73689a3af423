package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/modules/service"
	"github.com/phonica/phonica/internal/pkg/paging"
)

type MaterialHandler struct {
	svc service.MaterialService
}

func NewMaterialHandler(s service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: s}
}

// materialPayload is the JSON body shape for create and update. The audio
// reference is a temp file id from a prior staging upload.
type materialPayload struct {
	Title        string     `json:"title"`
	RecordedAt   *time.Time `json:"recordedAt"`
	TempFileID   string     `json:"tempFileId"`
	Memo         *string    `json:"memo"`
	Tags         []string   `json:"tags"`
	EquipmentIDs []string   `json:"equipmentIds"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	LocationName *string    `json:"locationName"`
	Rating       *int       `json:"rating"`
}

type listMaterialsQuery struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Title     string `form:"title"`
	Tag       string `form:"tag"`
}

// CreateMaterial godoc
//
//	@Summary		Create material
//	@Description	Register a recording with its metadata. Accepts multipart form-data with a raw file, or JSON referencing a staged temp file id.
//	@Tags			material
//	@Accept			mpfd
//	@Accept			json
//	@Produce		json
//	@Param			title		formData	string	true	"Material title"
//	@Param			recordedAt	formData	string	true	"Recording timestamp (RFC 3339)"
//	@Param			file		formData	file	false	"Audio payload"
//	@Success		201	{object}	serializer.Response{data=model.Material}
//	@Failure		400	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/materials [post]
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	in, cleanup, ok := h.bindMaterial(c)
	if !ok {
		return
	}
	defer cleanup()

	m, err := h.svc.Create(c.Request.Context(), service.CreateMaterialInput(in))
	if err != nil {
		respondServiceErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: m})
}

// UpdateMaterial godoc
//
//	@Summary		Update material
//	@Description	Replace a material's fields and relation sets. The slug is immutable; an omitted tag or equipment set clears to empty.
//	@Tags			material
//	@Accept			mpfd
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string	true	"Material slug"
//	@Success		200	{object}	serializer.Response{data=model.Material}
//	@Failure		404	{object}	serializer.Response
//	@Router			/materials/{slug} [put]
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	in, cleanup, ok := h.bindMaterial(c)
	if !ok {
		return
	}
	defer cleanup()

	m, err := h.svc.Update(c.Request.Context(), c.Param("slug"), service.UpdateMaterialInput(in))
	if err != nil {
		respondServiceErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: m})
}

// GetMaterial godoc
//
//	@Summary		Get material
//	@Tags			material
//	@Produce		json
//	@Param			slug	path	string	true	"Material slug"
//	@Success		200	{object}	serializer.Response{data=model.Material}
//	@Failure		404	{object}	serializer.Response
//	@Router			/materials/{slug} [get]
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: m})
}

// ListMaterials godoc
//
//	@Summary		List materials
//	@Description	Paginated listing with optional title substring and tag slug filters.
//	@Tags			material
//	@Produce		json
//	@Param			page		query	int		false	"Page number"
//	@Param			limit		query	int		false	"Page size (max 100)"
//	@Param			sortBy		query	string	false	"Sort column"	Enums(title, recorded_at, created_at, rating)
//	@Param			sortOrder	query	string	false	"asc or desc"
//	@Param			title		query	string	false	"Title substring filter"
//	@Param			tag			query	string	false	"Tag slug filter"
//	@Success		200	{object}	serializer.Response{data=paging.Paged[model.Material]}
//	@Router			/materials [get]
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	var q listMaterialsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListMaterialsInput{
		Title: q.Title,
		Tag:   q.Tag,
		Page: paging.Params{
			Page:      q.Page,
			Limit:     q.Limit,
			SortBy:    q.SortBy,
			SortOrder: q.SortOrder,
		},
	})
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteMaterial godoc
//
//	@Summary		Delete material
//	@Description	Remove the record and schedule its audio file for removal.
//	@Tags			material
//	@Produce		json
//	@Param			slug	path	string	true	"Material slug"
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Router			/materials/{slug} [delete]
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// bindMaterial decodes either entry style into the shared input shape and
// writes the error response itself when binding fails. The returned cleanup
// closes the multipart file, if any.
func (h *MaterialHandler) bindMaterial(c *gin.Context) (service.CreateMaterialInput, func(), bool) {
	noop := func() {}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.bindMaterialForm(c)
	}

	var p materialPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid request body", err))
		return service.CreateMaterialInput{}, noop, false
	}

	equipmentIDs, bad := parseEquipmentIDs(p.EquipmentIDs)
	if len(bad) > 0 {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("invalid equipment ids", bad))
		return service.CreateMaterialInput{}, noop, false
	}

	return service.CreateMaterialInput{
		Title:        p.Title,
		RecordedAt:   p.RecordedAt,
		Memo:         p.Memo,
		TagNames:     p.Tags,
		EquipmentIDs: equipmentIDs,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		LocationName: p.LocationName,
		Rating:       p.Rating,
		Audio:        service.AudioSource{TempFileID: p.TempFileID},
	}, noop, true
}

func (h *MaterialHandler) bindMaterialForm(c *gin.Context) (service.CreateMaterialInput, func(), bool) {
	noop := func() {}

	in := service.CreateMaterialInput{
		Title:        c.PostForm("title"),
		RecordedAt:   timeField(c.PostForm("recordedAt")),
		Memo:         normalizeString(c.PostForm("memo")),
		TagNames:     formList(c, "tags"),
		Latitude:     floatField(c.PostForm("latitude")),
		Longitude:    floatField(c.PostForm("longitude")),
		LocationName: normalizeString(c.PostForm("locationName")),
		Rating:       intField(c.PostForm("rating")),
		Audio:        service.AudioSource{TempFileID: c.PostForm("tempFileId")},
	}

	equipmentIDs, bad := parseEquipmentIDs(formList(c, "equipmentIds"))
	if len(bad) > 0 {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("invalid equipment ids", bad))
		return service.CreateMaterialInput{}, noop, false
	}
	in.EquipmentIDs = equipmentIDs

	cleanup := noop
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("failed to read file", err))
			return service.CreateMaterialInput{}, noop, false
		}
		cleanup = func() { _ = f.Close() }
		in.Audio = service.AudioSource{File: f, FileName: fh.Filename}
	}

	return in, cleanup, true
}

// formList accepts both repeated form fields and a single comma separated
// value for array inputs.
func formList(c *gin.Context, key string) []string {
	values := c.PostFormArray(key)
	if len(values) == 1 && strings.Contains(values[0], ",") {
		values = strings.Split(values[0], ",")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseEquipmentIDs(raw []string) ([]uuid.UUID, []string) {
	ids := make([]uuid.UUID, 0, len(raw))
	var bad []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := uuid.Parse(r)
		if err != nil {
			bad = append(bad, r)
			continue
		}
		ids = append(ids, id)
	}
	return ids, bad
}

func timeField(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
