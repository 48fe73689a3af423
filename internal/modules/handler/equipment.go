package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/modules/service"
)

type EquipmentHandler struct {
	svc service.EquipmentService
}

func NewEquipmentHandler(s service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{svc: s}
}

type equipmentPayload struct {
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	Manufacturer *string `json:"manufacturer"`
	Memo         *string `json:"memo"`
}

func (p equipmentPayload) input() service.EquipmentInput {
	return service.EquipmentInput{
		Name:         p.Name,
		Type:         p.Type,
		Manufacturer: p.Manufacturer,
		Memo:         p.Memo,
	}
}

// CreateEquipment godoc
//
//	@Summary		Create equipment
//	@Tags			master
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	serializer.Response{data=model.Equipment}
//	@Failure		409	{object}	serializer.Response
//	@Router			/master/equipment [post]
func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var p equipmentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("required fields missing", bindingDetails(err)))
		return
	}

	eq, err := h.svc.Create(c.Request.Context(), p.input())
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: eq})
}

// GetEquipment godoc
//
//	@Summary		Get equipment
//	@Tags			master
//	@Produce		json
//	@Param			equipment_id	path	string	true	"Equipment ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{data=model.Equipment}
//	@Failure		404	{object}	serializer.Response
//	@Router			/master/equipment/{equipment_id} [get]
func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("equipment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid equipment id", err))
		return
	}

	eq, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: eq})
}

// ListEquipment godoc
//
//	@Summary		List equipment
//	@Tags			master
//	@Produce		json
//	@Param			page	query	int		false	"Page number"
//	@Param			limit	query	int		false	"Page size (max 100)"
//	@Param			name	query	string	false	"Name substring filter"
//	@Success		200	{object}	serializer.Response{data=paging.Paged[model.Equipment]}
//	@Router			/master/equipment [get]
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
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

// UpdateEquipment godoc
//
//	@Summary		Update equipment
//	@Tags			master
//	@Accept			json
//	@Produce		json
//	@Param			equipment_id	path	string	true	"Equipment ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{data=model.Equipment}
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/master/equipment/{equipment_id} [put]
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("equipment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid equipment id", err))
		return
	}

	var p equipmentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("required fields missing", bindingDetails(err)))
		return
	}

	eq, err := h.svc.Update(c.Request.Context(), id, p.input())
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: eq})
}

// DeleteEquipment godoc
//
//	@Summary		Delete equipment
//	@Description	Delete equipment. Refused with the dependent material count while any material still references it.
//	@Tags			master
//	@Produce		json
//	@Param			equipment_id	path	string	true	"Equipment ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/master/equipment/{equipment_id} [delete]
func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("equipment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid equipment id", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
