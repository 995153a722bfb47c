package handlers

import (
	"net/http"

	response "proposal_builder/internal/adapter/http/dto/response"
	"proposal_builder/internal/usecase"
	"proposal_builder/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler exposes the read side of the service and package catalogs.
type CatalogHandler struct {
	usecase usecase.ICatalogUseCase
}

func NewCatalogHandler(uc usecase.ICatalogUseCase) *CatalogHandler {
	return &CatalogHandler{usecase: uc}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	list, err := h.usecase.ListServices(c.Request.Context())
	if err != nil {
		zap.L().Error("[catalog][handler] list services failed", zap.Error(err))
		writeError(c, mapCatalogError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromServices(list))
}

func (h *CatalogHandler) ListPackages(c *gin.Context) {
	list, err := h.usecase.ListPackages(c.Request.Context())
	if err != nil {
		zap.L().Error("[catalog][handler] list packages failed", zap.Error(err))
		writeError(c, mapCatalogError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPackages(list))
}

func mapCatalogError(err error) *pkg.AppError {
	return pkg.NewDomainError("CATALOG_UNAVAILABLE", "Pricing catalog could not be loaded", err, http.StatusInternalServerError)
}
