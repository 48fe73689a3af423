package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/phonica/phonica/docs"
	"github.com/phonica/phonica/internal/config"
	"github.com/phonica/phonica/internal/middleware"
	"github.com/phonica/phonica/internal/modules/handler"
	"github.com/phonica/phonica/internal/modules/serializer"
	"github.com/phonica/phonica/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	MaterialHandler  *handler.MaterialHandler
	UploadHandler    *handler.UploadHandler
	TagHandler       *handler.TagHandler
	EquipmentHandler *handler.EquipmentHandler
	ProjectHandler   *handler.ProjectHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	// Initialize logger for serializer package
	serializer.SetLogger(d.Log)

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		// Add trace ID to response header
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		uploadLimit := middleware.BodyLimit(d.Config.Storage.MaxUploadMB << 20)

		materials := v1.Group("/materials")
		{
			materials.GET("", d.MaterialHandler.ListMaterials)
			materials.POST("", uploadLimit, d.MaterialHandler.CreateMaterial)
			materials.POST("/uploads", uploadLimit, d.UploadHandler.UploadTemp)
			materials.GET("/:slug", d.MaterialHandler.GetMaterial)
			materials.PUT("/:slug", uploadLimit, d.MaterialHandler.UpdateMaterial)
			materials.DELETE("/:slug", d.MaterialHandler.DeleteMaterial)
		}

		master := v1.Group("/master")
		{
			master.GET("/tags", d.TagHandler.ListTags)
			master.POST("/tags", d.TagHandler.CreateTag)
			master.GET("/tags/:tag_id", d.TagHandler.GetTag)
			master.PUT("/tags/:tag_id", d.TagHandler.UpdateTag)
			master.DELETE("/tags/:tag_id", d.TagHandler.DeleteTag)

			master.GET("/equipment", d.EquipmentHandler.ListEquipment)
			master.POST("/equipment", d.EquipmentHandler.CreateEquipment)
			master.GET("/equipment/:equipment_id", d.EquipmentHandler.GetEquipment)
			master.PUT("/equipment/:equipment_id", d.EquipmentHandler.UpdateEquipment)
			master.DELETE("/equipment/:equipment_id", d.EquipmentHandler.DeleteEquipment)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.POST("", d.ProjectHandler.CreateProject)
			projects.GET("/:project_ref", d.ProjectHandler.GetProject)
			projects.PUT("/:project_ref", d.ProjectHandler.UpdateProject)
			projects.DELETE("/:project_ref", d.ProjectHandler.DeleteProject)

			projects.GET("/:project_ref/materials", d.ProjectHandler.ListProjectMaterials)
			projects.POST("/:project_ref/materials", d.ProjectHandler.AttachMaterial)
			projects.DELETE("/:project_ref/materials/:material_id", d.ProjectHandler.DetachMaterial)
		}
	}

	return r
}
