package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/server/dto"
)

// FactsHandler handles fact ingestion and maintenance requests
type FactsHandler struct {
	engine relato.Engine
}

// NewFactsHandler creates a new facts handler
func NewFactsHandler(engine relato.Engine) *FactsHandler {
	return &FactsHandler{engine: engine}
}

// AddFact handles POST /api/v1/people/:name/facts
func (h *FactsHandler) AddFact(c *gin.Context) {
	var req dto.AddFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.engine.AddFact(c.Request.Context(), c.Param("name"), req.Text, req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListFacts handles GET /api/v1/people/:name/facts, optionally filtered by
// ?category=
func (h *FactsHandler) ListFacts(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	if category := c.Query("category"); category != "" {
		facts, err := h.engine.GetFactsByCategory(ctx, name, category)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, facts)
		return
	}

	facts, err := h.engine.GetFacts(ctx, name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facts)
}

// UpdateFact handles PATCH /api/v1/people/:name/facts/:number
func (h *FactsHandler) UpdateFact(c *gin.Context) {
	ordinal, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		badRequest(c, err)
		return
	}
	var req dto.UpdateFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fact, err := h.engine.UpdateFactCategory(c.Request.Context(), c.Param("name"), ordinal, req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fact)
}

// DeleteFact handles DELETE /api/v1/people/:name/facts/:number
func (h *FactsHandler) DeleteFact(c *gin.Context) {
	ordinal, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		badRequest(c, err)
		return
	}

	fact, err := h.engine.DeleteFact(c.Request.Context(), c.Param("name"), ordinal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fact)
}

// DeleteAllFacts handles DELETE /api/v1/people/:name/facts
func (h *FactsHandler) DeleteAllFacts(c *gin.Context) {
	deleted, err := h.engine.DeleteAllFacts(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeletedResponse{Deleted: deleted})
}

// Backfill handles POST /api/v1/facts/backfill
func (h *FactsHandler) Backfill(c *gin.Context) {
	updated, failed, err := h.engine.BackfillEmbeddings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BackfillResponse{Updated: updated, Failed: failed})
}
