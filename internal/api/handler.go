package api

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/lukitun/Jahbreak/internal/api/middleware"
	"github.com/lukitun/Jahbreak/internal/config"
	"github.com/lukitun/Jahbreak/internal/executor"
	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/rs/zerolog"
)

const Version = "1.0.0"

type Handler struct {
	executor        *executor.Executor
	compareExecutor *executor.CompareExecutor
	rubric          *config.Config
	logger          *zerolog.Logger
}

func NewHandler(executor *executor.Executor, compareExecutor *executor.CompareExecutor, rubric *config.Config, logger *zerolog.Logger) *Handler {
	return &Handler{
		executor:        executor,
		compareExecutor: compareExecutor,
		rubric:          rubric,
		logger:          logger,
	}
}

// POST /api/v1/evaluate
// Body: EvaluationRequest
// Returns: EvaluationResult
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var evalRequest models.EvaluationRequest
	if err := req.ReadEntity(&evalRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := models.ValidateStruct(evalRequest); err != nil {
		h.logger.Warn().Err(err).Msg("Invalid evaluation request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("event_id", evalRequest.EventID).
		Str("event_type", string(evalRequest.EventType)).
		Str("generator", evalRequest.Generator.Name).
		Msg("Start evaluation")

	ctx := req.Request.Context()
	evalResult := h.executor.Execute(ctx, models.Normalize(evalRequest.EventID, evalRequest.Sample))

	resp.WriteHeaderAndEntity(http.StatusOK, evalResult)
}

// POST /api/v1/compare
// Body: CompareRequest
// Returns: PairResult
func (h *Handler) Compare(req *restful.Request, resp *restful.Response) {
	var compareRequest models.CompareRequest
	if err := req.ReadEntity(&compareRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := models.ValidateStruct(compareRequest); err != nil {
		h.logger.Warn().Err(err).Msg("Invalid compare request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	id, first, second := models.NormalizePair(compareRequest)

	h.logger.Info().
		Str("event_id", id).
		Str("generator", compareRequest.Generator.Name).
		Bool("expect_distinct", compareRequest.ExpectDistinct).
		Msg("Start comparison")

	pair := h.compareExecutor.Execute(req.Request.Context(), id, first, second, compareRequest.ExpectDistinct)

	resp.WriteHeaderAndEntity(http.StatusOK, pair)
}

// Rubric handler GET /api/v1/rubric
func (h *Handler) Rubric(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.rubric.Rubric)
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: Version,
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
