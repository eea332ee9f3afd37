package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medconnect-server/internal/middleware"
	"medconnect-server/internal/models"
	"medconnect-server/internal/services"
	"medconnect-server/internal/utils"
)

// DoctorHandler handles doctor listing and availability requests.
type DoctorHandler struct {
	DB           *gorm.DB
	Availability *services.AvailabilityService
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, availability *services.AvailabilityService) *DoctorHandler {
	return &DoctorHandler{DB: db, Availability: availability}
}

// GetDoctors handles fetching all doctor profiles.
// Accessible to patients for picking a doctor to book.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.DoctorProfile
	if err := h.DB.Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	utils.Success(c, "Doctors fetched successfully", doctors)
}

// AvailableSlots handles resolving a doctor's free slots for a date.
// The date query parameter is optional and defaults to today.
func (h *DoctorHandler) AvailableSlots(c *gin.Context) {
	result, err := h.Availability.AvailableSlots(c.Param("id"), c.Query("date"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", result)
}

// UpdateAvailabilityRequest represents the request body for a doctor
// configuring their daily working window.
type UpdateAvailabilityRequest struct {
	AvailableFrom string `json:"available_from" binding:"required"`
	AvailableTo   string `json:"available_to" binding:"required"`
}

// UpdateAvailability handles a doctor setting their daily availability window.
func (h *DoctorHandler) UpdateAvailability(c *gin.Context) {
	var req UpdateAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	identity, exists := middleware.GetIdentity(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if !identity.IsDoctor() {
		utils.Forbidden(c, "Only doctors can configure availability")
		return
	}

	if !services.ValidWindow(req.AvailableFrom, req.AvailableTo) {
		utils.UnprocessableEntity(c, "available_from and available_to must be HH:MM times with available_from before available_to")
		return
	}

	var doctor models.DoctorProfile
	if err := h.DB.First(&doctor, "id = ?", identity.DoctorID).Error; err != nil {
		utils.NotFound(c, "Doctor profile not found")
		return
	}

	doctor.AvailableFrom = &req.AvailableFrom
	doctor.AvailableTo = &req.AvailableTo
	if err := h.DB.Save(&doctor).Error; err != nil {
		utils.InternalServerError(c, "Failed to update availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability updated successfully", doctor)
}
