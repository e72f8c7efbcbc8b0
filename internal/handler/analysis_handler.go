package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/middleware"
	"github.com/conlit/backend/internal/service"
)

// AnalysisHandler handles per-user analysis requests
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	logger          *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// AnalysisQuery holds the query parameters shared by the analysis endpoints
type AnalysisQuery struct {
	Coach bool   `form:"coach"`
	Seed  *int64 `form:"seed"`
}

// GetProfile returns the user's public profile
// GET /v1/user/:username/profile
func (h *AnalysisHandler) GetProfile(c *gin.Context) {
	username, ok := h.username(c)
	if !ok {
		return
	}

	profile, err := h.analysisService.GetProfile(c.Request.Context(), username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetAnalysis returns every analysis facet for the user
// GET /v1/user/:username/analysis
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	req, ok := h.request(c)
	if !ok {
		return
	}

	result, err := h.analysisService.FullAnalysis(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	middleware.SetSolvedSource(c, result.SolvedSource)
	c.JSON(http.StatusOK, result)
}

// GetPerformanceSummary returns the user's ranking and submission stats
// GET /v1/user/:username/analysis/performance-summary
func (h *AnalysisHandler) GetPerformanceSummary(c *gin.Context) {
	username, ok := h.username(c)
	if !ok {
		return
	}

	summary, err := h.analysisService.PerformanceSummary(c.Request.Context(), username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTopicGaps returns uncovered topics with practice suggestions
// GET /v1/user/:username/analysis/topic-gaps
func (h *AnalysisHandler) GetTopicGaps(c *gin.Context) {
	req, ok := h.request(c)
	if !ok {
		return
	}

	report, err := h.analysisService.TopicGaps(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	middleware.SetSolvedSource(c, report.SolvedSource)
	c.JSON(http.StatusOK, report)
}

// GetNemesisProblems returns the user's nemesis problems and related questions
// GET /v1/user/:username/analysis/nemesis-problems
func (h *AnalysisHandler) GetNemesisProblems(c *gin.Context) {
	req, ok := h.request(c)
	if !ok {
		return
	}

	report, err := h.analysisService.NemesisProblems(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetUnsolvedContests returns attended contests with unsolved problems
// GET /v1/user/:username/analysis/unsolved-contests
func (h *AnalysisHandler) GetUnsolvedContests(c *gin.Context) {
	username, ok := h.username(c)
	if !ok {
		return
	}

	unsolved, err := h.analysisService.UnsolvedContests(c.Request.Context(), username)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, unsolved)
}

func (h *AnalysisHandler) username(c *gin.Context) (string, bool) {
	username := c.Param("username")
	if !domain.ValidUsername(username) {
		badRequest(c, "Invalid username", nil)
		return "", false
	}
	return username, true
}

func (h *AnalysisHandler) request(c *gin.Context) (service.AnalysisRequest, bool) {
	username, ok := h.username(c)
	if !ok {
		return service.AnalysisRequest{}, false
	}

	var query AnalysisQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return service.AnalysisRequest{}, false
	}

	return service.AnalysisRequest{
		Username: username,
		Auth:     middleware.GetAuthContext(c),
		Coach:    query.Coach,
		Seed:     query.Seed,
	}, true
}
