package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/search"
	"github.com/soundprediction/relato/pkg/server/dto"
)

// SearchHandler handles fact and person search requests
type SearchHandler struct {
	engine relato.Engine
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(engine relato.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// SearchFacts handles POST /api/v1/search
func (h *SearchHandler) SearchFacts(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	switch req.Strategy {
	case "vector":
		results, err := h.engine.VectorSearchFacts(ctx, req.Query, req.TopK, req.MinSimilarity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	case "text":
		results, err := h.engine.TextSearchFacts(ctx, req.Query, req.Person, req.TopK)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	case "", "hybrid":
		results, err := h.engine.HybridSearchFacts(ctx, req.Query, search.HybridOptions{
			TopK:          req.TopK,
			VectorWeight:  req.VectorWeight,
			TextWeight:    req.TextWeight,
			MinSimilarity: req.MinSimilarity,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	default:
		badRequest(c, fmt.Errorf("unknown strategy %q", req.Strategy))
	}
}

// SearchPeople handles POST /api/v1/search/people
func (h *SearchHandler) SearchPeople(c *gin.Context) {
	var req dto.SearchPeopleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	matches, err := h.engine.SearchPeople(c.Request.Context(), req.Query, req.TopK, req.MinFactMatches)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}
