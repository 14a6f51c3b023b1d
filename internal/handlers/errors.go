package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auction-house/internal/aucterrors"
	"auction-house/internal/utils"
)

// respondError maps a service error to an HTTP status and JSON body. Every
// error kind is recoverable per request; nothing here is fatal.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, aucterrors.ErrValidation), errors.Is(err, aucterrors.ErrBidTooLow):
		status = http.StatusBadRequest
	case errors.Is(err, aucterrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, aucterrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, aucterrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, aucterrors.ErrConflict),
		errors.Is(err, aucterrors.ErrInvalidState),
		errors.Is(err, aucterrors.ErrListingClosed):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		utils.Error("request failed", map[string]any{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
