package routes

import (
	"net/http"

	"proposal_builder/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPing      = "/ping"
	PathProposals = "/proposals"
	PathDocuments = "/documents"
	PathCatalog   = "/catalog"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET(PathPing, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addProposalRoutes(rg *gin.RouterGroup, h *handlers.ProposalHandler) {
	proposals := rg.Group(PathProposals)
	{
		proposals.POST("/analyze", h.Analyze)
		proposals.POST("/field-edit", h.FieldEdit)
		proposals.POST("/prompt-edit", h.PromptEdit)
		proposals.POST("/discount", h.Discount)
		proposals.POST("", h.Save)
		proposals.GET("/:id", h.GetByID)
		proposals.GET("/:id/export", h.Export)
	}
}

func addDocumentRoutes(rg *gin.RouterGroup, h *handlers.DocumentHandler) {
	documents := rg.Group(PathDocuments)
	{
		documents.POST("/generate", h.Generate)
		documents.POST("/generate-from-brief", h.GenerateFromBrief)
		documents.POST("/edit-sow", h.EditSOW)
	}
}

func addCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	catalog := rg.Group(PathCatalog)
	{
		catalog.GET("/services", h.ListServices)
		catalog.GET("/packages", h.ListPackages)
	}
}
