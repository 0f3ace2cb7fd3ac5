package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/server/dto"
)

// PeopleHandler handles person CRUD requests
type PeopleHandler struct {
	engine relato.Engine
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(engine relato.Engine) *PeopleHandler {
	return &PeopleHandler{engine: engine}
}

// CreatePerson handles POST /api/v1/people
func (h *PeopleHandler) CreatePerson(c *gin.Context) {
	var req dto.AddPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	person, err := h.engine.AddPerson(c.Request.Context(), req.Name, req.Properties)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

// GetPerson handles GET /api/v1/people/:name
func (h *PeopleHandler) GetPerson(c *gin.Context) {
	person, err := h.engine.GetPerson(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// ListPeople handles GET /api/v1/people, with optional ?name= partial match
func (h *PeopleHandler) ListPeople(c *gin.Context) {
	ctx := c.Request.Context()
	partial := c.Query("name")

	var err error
	var people any
	if partial != "" {
		people, err = h.engine.FindPeople(ctx, partial)
	} else {
		people, err = h.engine.GetAllPeople(ctx)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

// UpdatePerson handles PATCH /api/v1/people/:name
func (h *PeopleHandler) UpdatePerson(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	person, err := h.engine.UpdatePersonProperties(c.Request.Context(), c.Param("name"), req.Properties)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

// DeletePerson handles DELETE /api/v1/people/:name
func (h *PeopleHandler) DeletePerson(c *gin.Context) {
	if err := h.engine.DeletePerson(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRelationships handles GET /api/v1/people/:name/relationships
func (h *PeopleHandler) GetRelationships(c *gin.Context) {
	rels, err := h.engine.GetRelationships(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rels)
}
