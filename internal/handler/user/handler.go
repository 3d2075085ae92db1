package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediconnect/clinic-api/internal/middleware"
	"github.com/mediconnect/clinic-api/internal/model"
	appointmentService "github.com/mediconnect/clinic-api/internal/service/appointment"
	authService "github.com/mediconnect/clinic-api/internal/service/auth"
	patientService "github.com/mediconnect/clinic-api/internal/service/patient"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/httputil"
)

// Handler serves the patient-facing account and booking flows
type Handler struct {
	auth         *authService.Service
	patients     *patientService.Service
	appointments *appointmentService.Service
}

func NewHandler(
	auth *authService.Service,
	patients *patientService.Service,
	appointments *appointmentService.Service,
) *Handler {
	return &Handler{auth: auth, patients: patients, appointments: appointments}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	r.POST("/appointments", h.BookAppointment)
	r.GET("/appointments", h.ListAppointments)
	r.POST("/appointments/cancel", h.CancelAppointment)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	patient, err := h.patients.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondCreated(c, patient)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	token, err := h.auth.LoginPatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, token)
}

func (h *Handler) GetProfile(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	patient, err := h.patients.Get(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.UpdatePatientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	patient, err := h.patients.UpdateProfile(c.Request.Context(), patientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	appointment, err := h.appointments.Book(c.Request.Context(), patientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondCreated(c, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	patientID, ok := callerID(c)
	if !ok {
		return
	}

	appointments, err := h.appointments.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	patientID, ok := callerID(c)
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

	if err := h.appointments.CancelForPatient(c.Request.Context(), appointmentID, patientID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Appointment cancelled")
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Unauthenticated("invalid token subject", err))
		return uuid.Nil, false
	}
	return id, true
}
