package hospital

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	hospitalService "github.com/mediconnect/clinic-api/internal/service/hospital"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/httputil"
)

// Handler serves the public hospital directory. Management endpoints
// live under the admin handler.
type Handler struct {
	hospitals *hospitalService.Service
}

func NewHandler(hospitals *hospitalService.Service) *Handler {
	return &Handler{hospitals: hospitals}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/:id", h.GetHospital)
	}
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitals.PublicList(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, hospitals)
}

func (h *Handler) GetHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid hospital ID", err))
		return
	}

	hospital, err := h.hospitals.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, hospital)
}
