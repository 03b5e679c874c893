package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/chainrag/core"
)

// searchResult is one direct-search row on the wire.
type searchResult struct {
	Chain      core.PluginChain `json:"chain"`
	Similarity float64          `json:"similarity_score"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Audio Plugin RAG API",
		"version": "1.0.0",
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var query core.Query
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	envelope, err := s.recommender.Recommend(c.Request.Context(), query)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope)
}

func (s *Server) handleAddChain(c *gin.Context) {
	var chain core.PluginChain
	if err := c.ShouldBindJSON(&chain); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	id, err := s.recommender.AddChain(c.Request.Context(), chain)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "message": "Plugin chain added successfully"})
}

func (s *Server) handleSearchChains(c *gin.Context) {
	q := c.Query("q")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(core.DefaultMaxResults)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid limit: " + c.Query("limit")})
		return
	}

	hits, err := s.recommender.SearchChainsDirect(c.Request.Context(), q, c.Query("genre"), c.Query("instrument"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	results := make([]searchResult, len(hits))
	for i, hit := range hits {
		results[i] = searchResult{Chain: hit.Entity, Similarity: hit.Score}
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.recommender.Initialize(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Service unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": float64(time.Now().UnixMilli()) / 1000.0,
		"database":  "connected",
	})
}

func (s *Server) handleInitialize(c *gin.Context) {
	if err := s.recommender.Initialize(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database initialized successfully"})
}

// fail writes a domain error with its taxonomy-mapped status code.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, gin.H{"detail": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrSchemaMissing), errors.Is(err, core.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrSynthesisFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
