package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/conlit/backend/internal/service"
)

// CorpusHandler handles question corpus requests
type CorpusHandler struct {
	corpusService *service.CorpusService
	logger        *zap.Logger
}

// NewCorpusHandler creates a new corpus handler
func NewCorpusHandler(corpusService *service.CorpusService, logger *zap.Logger) *CorpusHandler {
	return &CorpusHandler{
		corpusService: corpusService,
		logger:        logger,
	}
}

// GetStats returns statistics about the indexed corpus
// GET /v1/corpus/stats
func (h *CorpusHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.corpusService.Stats(c.Request.Context()))
}

// GetQuestion returns a corpus question by slug
// GET /v1/corpus/questions/:slug
func (h *CorpusHandler) GetQuestion(c *gin.Context) {
	question, err := h.corpusService.Question(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// Reload re-reads the corpus file and swaps the index
// POST /v1/admin/corpus/reload
func (h *CorpusHandler) Reload(c *gin.Context) {
	if err := h.corpusService.Reload(c.Request.Context()); err != nil {
		h.logger.Warn("Corpus reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.corpusService.Stats(c.Request.Context()))
}
