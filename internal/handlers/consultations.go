package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"medconnect-server/internal/middleware"
	"medconnect-server/internal/models"
	"medconnect-server/internal/services"
	"medconnect-server/internal/utils"
)

// ConsultationHandler handles consultation booking and lifecycle requests.
type ConsultationHandler struct {
	Service *services.ConsultationService
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(service *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{Service: service}
}

// BookConsultationRequest represents the request body for booking a consultation.
type BookConsultationRequest struct {
	DoctorID    string     `json:"doctor_id" binding:"required"`
	CallType    string     `json:"call_type" binding:"required,oneof=call_now schedule_later"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// Book handles creating a new consultation for the authenticated patient.
func (h *ConsultationHandler) Book(c *gin.Context) {
	var req BookConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	callMode := models.CallModeNow
	if req.CallType == "schedule_later" {
		callMode = models.CallModeSchedule
	}

	result, err := h.Service.Book(identity, services.BookInput{
		DoctorID:    req.DoctorID,
		CallMode:    callMode,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.Created(c, "Consultation booked successfully", result)
}

// Start handles either party starting (or joining) a consultation call.
func (h *ConsultationHandler) Start(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.Service.Start(identity, c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	message := "Consultation started"
	if result.IsJoining {
		message = "Joining consultation already in progress"
	}
	utils.Success(c, message, gin.H{
		"consultation": result.Consultation,
		"is_joining":   result.IsJoining,
		"role":         result.Role,
	})
}

// End handles either party ending an in-progress consultation.
func (h *ConsultationHandler) End(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.Service.End(identity, c.Param("id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.Success(c, "Consultation ended", gin.H{
		"consultation": result.Consultation,
		"ended_by":     result.EndedBy,
	})
}

// List handles fetching the authenticated user's own consultations.
func (h *ConsultationHandler) List(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	consultations, err := h.Service.List(identity)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.Success(c, "Consultations fetched successfully", consultations)
}
