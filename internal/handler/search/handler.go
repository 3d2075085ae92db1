package search

import (
	"github.com/gin-gonic/gin"

	searchService "github.com/mediconnect/clinic-api/internal/service/search"
	"github.com/mediconnect/clinic-api/pkg/httputil"
)

type Handler struct {
	search *searchService.Service
}

func NewHandler(search *searchService.Service) *Handler {
	return &Handler{search: search}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/search", h.Search)
}

func (h *Handler) Search(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
