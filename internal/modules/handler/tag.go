package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/modules/service"
	"github.com/phonica/phonica/internal/pkg/paging"
)

type TagHandler struct {
	svc service.TagService
}

func NewTagHandler(s service.TagService) *TagHandler {
	return &TagHandler{svc: s}
}

type tagPayload struct {
	Name string `json:"name" binding:"required"`
}

type masterListQuery struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Name      string `form:"name"`
}

func (q masterListQuery) params() paging.Params {
	return paging.Params{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

// CreateTag godoc
//
//	@Summary		Create tag
//	@Tags			master
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	serializer.Response{data=model.Tag}
//	@Failure		409	{object}	serializer.Response
//	@Router			/master/tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var p tagPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("required fields missing", bindingDetails(err)))
		return
	}

	tag, err := h.svc.Create(c.Request.Context(), p.Name)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: tag})
}

// GetTag godoc
//
//	@Summary		Get tag
//	@Tags			master
//	@Produce		json
//	@Param			tag_id	path	string	true	"Tag ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{data=model.Tag}
//	@Failure		404	{object}	serializer.Response
//	@Router			/master/tags/{tag_id} [get]
func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tag_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid tag id", err))
		return
	}

	tag, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: tag})
}

// ListTags godoc
//
//	@Summary		List tags
//	@Tags			master
//	@Produce		json
//	@Param			page	query	int		false	"Page number"
//	@Param			limit	query	int		false	"Page size (max 100)"
//	@Param			name	query	string	false	"Name substring filter"
//	@Success		200	{object}	serializer.Response{data=paging.Paged[model.Tag]}
//	@Router			/master/tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	var q masterListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.List(c.Request.Context(), q.params(), q.Name)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateTag godoc
//
//	@Summary		Rename tag
//	@Description	Rename a tag. The slug stays stable so material URLs keep working.
//	@Tags			master
//	@Accept			json
//	@Produce		json
//	@Param			tag_id	path	string	true	"Tag ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{data=model.Tag}
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/master/tags/{tag_id} [put]
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tag_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid tag id", err))
		return
	}

	var p tagPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("required fields missing", bindingDetails(err)))
		return
	}

	tag, err := h.svc.Update(c.Request.Context(), id, p.Name)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: tag})
}

// DeleteTag godoc
//
//	@Summary		Delete tag
//	@Description	Delete a tag. Refused with the dependent material count while any material still references it.
//	@Tags			master
//	@Produce		json
//	@Param			tag_id	path	string	true	"Tag ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/master/tags/{tag_id} [delete]
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("tag_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid tag id", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
