package controllers

import (
	"net/http"
	"strconv"
	"time"

	"hms/dto"
	"hms/errors"
	"hms/response"
	"hms/services"
	"hms/validator"

	"github.com/gin-gonic/gin"
)

type ResidentController struct {
	occupancy *services.OccupancyService
	rooms     *services.RoomService
}

func NewResidentController(occupancy *services.OccupancyService, rooms *services.RoomService) *ResidentController {
	return &ResidentController{
		occupancy: occupancy,
		rooms:     rooms,
	}
}

// AssignToRoom onboards a pending resident onto a bed
func (ctl *ResidentController) AssignToRoom(c *gin.Context) {
	var req dto.AssignToRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid assign request: "+err.Error())
		return
	}

	cmd, err := validator.ValidateAssignRequest(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resident, err := ctl.occupancy.AssignToRoom(c.Request.Context(), *cmd)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, resident)
}

// Vacate releases a resident's bed immediately or starts a notice period
func (ctl *ResidentController) Vacate(c *gin.Context) {
	var req dto.VacateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid vacate request: "+err.Error())
		return
	}

	cmd, err := validator.ValidateVacateRequest(&req, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resident, err := ctl.occupancy.Vacate(c.Request.Context(), *cmd)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, resident)
}

// SwitchRoom moves a resident to a free bed in another room
func (ctl *ResidentController) SwitchRoom(c *gin.Context) {
	var req dto.SwitchRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid switch request: "+err.Error())
		return
	}
	if req.PerformedBy == "" {
		if userID, exists := c.Get("userID"); exists {
			req.PerformedBy = "user:" + strconv.FormatUint(uint64(userID.(uint)), 10)
		}
	}

	resident, err := ctl.occupancy.SwitchRoom(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, resident)
}

// GetSwitchHistory returns a resident's switch records, newest first
func (ctl *ResidentController) GetSwitchHistory(c *gin.Context) {
	residentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid resident id")
		return
	}

	history, err := ctl.rooms.GetSwitchHistory(c.Request.Context(), uint(residentID))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, history)
}

// handleServiceError maps AppError codes to HTTP envelopes
func handleServiceError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		response.ServerError(c)
		return
	}

	switch appErr.Code {
	case errors.ErrCodeRoomNotFound, errors.ErrCodeResidentNotFound, errors.ErrCodeBedNotFound:
		response.BusinessError(c, http.StatusNotFound, string(appErr.Code), appErr.Message)
	case errors.ErrCodeBedUnavailable, errors.ErrCodeAlreadyAssigned, errors.ErrCodeReservationConflict:
		response.BusinessError(c, http.StatusConflict, string(appErr.Code), appErr.Message)
	case errors.ErrCodeInvalidBedNumber, errors.ErrCodeInvalidNoticeWindow, errors.ErrCodeInvalidStatus,
		errors.ErrCodeBedAlreadyAvailable, errors.ErrCodeValidation, errors.ErrCodeInvalidFormat,
		errors.ErrCodeRequiredField:
		response.BusinessError(c, http.StatusBadRequest, string(appErr.Code), appErr.Message)
	default:
		response.ServerError(c)
	}
}
