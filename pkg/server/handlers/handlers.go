// Package handlers implements the HTTP handlers over the relato engine.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/server/dto"
)

// writeError maps engine errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, relato.ErrPersonNotFound):
		status = http.StatusNotFound
		code = "person_not_found"
	case errors.Is(err, relato.ErrOrdinalOutOfRange):
		status = http.StatusBadRequest
		code = "fact_number_out_of_range"
	case errors.Is(err, relato.ErrNoEmbeddedFacts):
		status = http.StatusConflict
		code = "no_embedded_facts"
	}
	c.JSON(status, dto.ErrorResponse{Error: code, Message: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
}
