package handlers

import (
	"errors"
	"net/http"

	"proposal_builder/internal/usecase"
	"proposal_builder/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errInternal       = pkg.NewDomainErrorSimple("INTERNAL_ERROR", "An internal error occurred", http.StatusInternalServerError)
)

// mapLLMError handles failures of the language model call shared by every
// handler that talks to it.
func mapLLMError(err error, creditsURL string) (*pkg.AppError, bool) {
	switch {
	case errors.Is(err, usecase.ErrLLMCreditsExhausted):
		appErr := pkg.NewDomainError("LLM_CREDITS_EXHAUSTED", "The AI provider account has run out of credits", err, http.StatusPaymentRequired)
		if creditsURL != "" {
			appErr = appErr.WithDetail("remediation_url", creditsURL)
		}
		return appErr, true
	case errors.Is(err, usecase.ErrLLMUnavailable):
		return pkg.NewDomainError("LLM_UNAVAILABLE", "The AI provider is unavailable", err, http.StatusBadGateway), true
	}
	return nil, false
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
