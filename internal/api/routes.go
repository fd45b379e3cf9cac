package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/lukitun/Jahbreak/internal/api/middleware"
	"github.com/lukitun/Jahbreak/internal/config"
	"github.com/lukitun/Jahbreak/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/evaluate").
			To(handler.Evaluate).
			Doc("Evaluate one generated prompt").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(models.EvaluationRequest{}).
			Writes(models.EvaluationResult{}).
			Returns(200, "OK", models.EvaluationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/compare").
			To(handler.Compare).
			Doc("Evaluate and compare two variants generated from one query").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(models.CompareRequest{}).
			Writes(models.PairResult{}).
			Returns(200, "OK", models.PairResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/rubric").
			To(handler.Rubric).
			Doc("Active rubric vocabularies and thresholds").
			Metadata(restfulspec.KeyOpenAPITags, []string{"rubric"}).
			Writes(config.RubricConfig{}).
			Returns(200, "OK", config.RubricConfig{}))

	container.Add(ws)
}
