package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type projectPayload struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type projectMaterialPayload struct {
	MaterialID uuid.UUID `json:"materialId" binding:"required"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Failure		409	{object}	serializer.Response
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var p projectPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("required fields missing", bindingDetails(err)))
		return
	}

	project, err := h.svc.Create(c.Request.Context(), service.ProjectInput{Name: p.Name, Description: p.Description})
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Fetch a project by UUID or slug.
//	@Tags			project
//	@Produce		json
//	@Param			project_ref	path	string	true	"Project ID or slug"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_ref} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("project_ref"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Tags			project
//	@Produce		json
//	@Param			page	query	int		false	"Page number"
//	@Param			limit	query	int		false	"Page size (max 100)"
//	@Param			name	query	string	false	"Name substring filter"
//	@Success		200	{object}	serializer.Response{data=paging.Paged[model.Project]}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
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

// UpdateProject godoc
//
//	@Summary		Update project
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_ref	path	string	true	"Project ID or slug"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/projects/{project_ref} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var p projectPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ValidationErr("required fields missing", bindingDetails(err)))
		return
	}

	project, err := h.svc.Update(c.Request.Context(), c.Param("project_ref"), service.ProjectInput{Name: p.Name, Description: p.Description})
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project. Refused with the material count while materials remain attached; detach them first.
//	@Tags			project
//	@Produce		json
//	@Param			project_ref	path	string	true	"Project ID or slug"
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/projects/{project_ref} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("project_ref")); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// ListProjectMaterials godoc
//
//	@Summary		List project materials
//	@Tags			project
//	@Produce		json
//	@Param			project_slug	path	string	true	"Project slug"
//	@Param			page			query	int		false	"Page number"
//	@Param			limit			query	int		false	"Page size (max 100)"
//	@Success		200	{object}	serializer.Response{data=service.ProjectMaterialsOutput}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_slug}/materials [get]
func (h *ProjectHandler) ListProjectMaterials(c *gin.Context) {
	var q masterListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.ListMaterials(c.Request.Context(), c.Param("project_ref"), q.params())
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// AttachMaterial godoc
//
//	@Summary		Attach material to project
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_slug	path	string	true	"Project slug"
//	@Success		200	{object}	serializer.Response{}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_slug}/materials [post]
func (h *ProjectHandler) AttachMaterial(c *gin.Context) {
	var p projectMaterialPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("materialId is required", err))
		return
	}

	if err := h.svc.AttachMaterial(c.Request.Context(), c.Param("project_ref"), p.MaterialID); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// DetachMaterial godoc
//
//	@Summary		Detach material from project
//	@Description	Remove the association only. The material itself is untouched.
//	@Tags			project
//	@Produce		json
//	@Param			project_slug	path	string	true	"Project slug"
//	@Param			material_id		path	string	true	"Material ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_slug}/materials/{material_id} [delete]
func (h *ProjectHandler) DetachMaterial(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("material_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid material id", err))
		return
	}

	if err := h.svc.DetachMaterial(c.Request.Context(), c.Param("project_ref"), materialID); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
