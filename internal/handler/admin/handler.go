package admin

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediconnect/clinic-api/internal/model"
	appointmentService "github.com/mediconnect/clinic-api/internal/service/appointment"
	authService "github.com/mediconnect/clinic-api/internal/service/auth"
	doctorService "github.com/mediconnect/clinic-api/internal/service/doctor"
	hospitalService "github.com/mediconnect/clinic-api/internal/service/hospital"
	apperrors "github.com/mediconnect/clinic-api/pkg/errors"
	"github.com/mediconnect/clinic-api/pkg/httputil"
)

// Handler serves the admin console: doctor and hospital management,
// the appointment overview and the dashboard.
type Handler struct {
	auth         *authService.Service
	doctors      *doctorService.Service
	hospitals    *hospitalService.Service
	appointments *appointmentService.Service
}

func NewHandler(
	auth *authService.Service,
	doctors *doctorService.Service,
	hospitals *hospitalService.Service,
	appointments *appointmentService.Service,
) *Handler {
	return &Handler{
		auth:         auth,
		doctors:      doctors,
		hospitals:    hospitals,
		appointments: appointments,
	}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
		doctors.PATCH("/:id/availability", h.ChangeAvailability)
	}

	hospitals := r.Group("/hospitals")
	{
		hospitals.POST("", h.CreateHospital)
		hospitals.GET("", h.ListHospitals)
		hospitals.PUT("/:id", h.UpdateHospital)
		hospitals.DELETE("/:id", h.DeleteHospital)
	}

	r.GET("/appointments", h.ListAppointments)
	r.POST("/appointments/cancel", h.CancelAppointment)
	r.GET("/dashboard", h.Dashboard)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	token, err := h.auth.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, token)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	image, cleanup, err := formImage(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer cleanup()

	doctor, err := h.doctors.Create(c.Request.Context(), &req, image)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondCreated(c, doctor)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	image, cleanup, err := formImage(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer cleanup()

	doctor, err := h.doctors.Update(c.Request.Context(), id, &req, image)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	if err := h.doctors.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Doctor deleted successfully")
}

type changeAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *Handler) ChangeAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID", err))
		return
	}

	var req changeAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	if err := h.doctors.SetAvailability(c.Request.Context(), id, *req.Available); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Availability updated")
}

func (h *Handler) CreateHospital(c *gin.Context) {
	var req model.CreateHospitalRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	image, cleanup, err := formImage(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer cleanup()

	hospital, err := h.hospitals.Create(c.Request.Context(), &req, image)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondCreated(c, hospital)
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitals.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, hospitals)
}

func (h *Handler) UpdateHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid hospital ID", err))
		return
	}

	var req model.UpdateHospitalRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error(), err))
		return
	}

	image, cleanup, err := formImage(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer cleanup()

	hospital, err := h.hospitals.Update(c.Request.Context(), id, &req, image)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, hospital)
}

func (h *Handler) DeleteHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid hospital ID", err))
		return
	}

	message, err := h.hospitals.Delete(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, message)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.appointments.ListAll(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
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

	if err := h.appointments.Cancel(c.Request.Context(), appointmentID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Appointment cancelled")
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.appointments.AdminDashboard(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dashboard)
}

// formImage extracts the optional multipart image. Callers decide
// whether a nil reader is acceptable.
func formImage(c *gin.Context) (io.Reader, func(), error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// Absent file is fine; anything else is a malformed request.
		return nil, func() {}, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, apperrors.Validation("failed to read image upload", err)
	}
	return file, func() { _ = file.Close() }, nil
}
