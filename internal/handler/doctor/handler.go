package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediconnect/clinic-api/internal/middleware"
	"github.com/mediconnect/clinic-api/internal/model"
	appointmentService "github.com/mediconnect/clinic-api/internal/service/appointment"
	authService "github.com/mediconnect/clinic-api/internal/service/auth"
	doctorService "github.com/mediconnect/clinic-api/internal/service/doctor"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/httputil"
)

// Handler serves the public directory views of doctors plus the
// doctor's own portal.
type Handler struct {
	auth         *authService.Service
	doctors      *doctorService.Service
	appointments *appointmentService.Service
}

func NewHandler(
	auth *authService.Service,
	doctors *doctorService.Service,
	appointments *appointmentService.Service,
) *Handler {
	return &Handler{auth: auth, doctors: doctors, appointments: appointments}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.GET("/:id/slots", h.GetSlots)
	}
	r.POST("/doctor/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.ListAppointments)
	r.POST("/appointments/complete", h.CompleteAppointment)
	r.POST("/appointments/cancel", h.CancelAppointment)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	token, err := h.auth.LoginDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, token)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.PublicList(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	doctor, err := h.doctors.Detail(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) GetSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	slots, err := h.appointments.OpenSlotsForDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, slots)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	appointments, err := h.appointments.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.CompleteAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	if err := h.appointments.Complete(c.Request.Context(), appointmentID, doctorID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Appointment completed")
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}
	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment ID", err))
		return
	}

	if err := h.appointments.CancelForDoctor(c.Request.Context(), appointmentID, doctorID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Appointment cancelled")
}

func (h *Handler) Dashboard(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	dashboard, err := h.appointments.DoctorDashboard(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dashboard)
}

func (h *Handler) GetProfile(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	doctor, err := h.doctors.Get(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	doctorID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	doctor, err := h.doctors.UpdateProfile(c.Request.Context(), doctorID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated("invalid token subject", err))
		return uuid.Nil, false
	}
	return id, true
}
