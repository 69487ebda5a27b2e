package controllers

import (
	"strconv"
	"time"

	"hms/dto"
	"hms/response"
	"hms/services"
	"hms/validator"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	occupancy *services.OccupancyService
	rooms     *services.RoomService
}

func NewRoomController(occupancy *services.OccupancyService, rooms *services.RoomService) *RoomController {
	return &RoomController{
		occupancy: occupancy,
		rooms:     rooms,
	}
}

// GetAvailableRooms lists rooms of a property with at least one free bed
func (ctl *RoomController) GetAvailableRooms(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Query("propertyId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "propertyId is required")
		return
	}

	sharingType := 0
	if raw := c.Query("sharingType"); raw != "" {
		sharingType, err = strconv.Atoi(raw)
		if err != nil || sharingType < 1 || sharingType > 4 {
			response.BadRequest(c, "sharingType must be between 1 and 4")
			return
		}
	}

	rooms, err := ctl.rooms.GetAvailableRooms(c.Request.Context(), uint(propertyID), sharingType)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, rooms)
}

// ReserveBed earmarks an occupied bed for a successor resident
func (ctl *RoomController) ReserveBed(c *gin.Context) {
	var req dto.ReserveBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid reserve request: "+err.Error())
		return
	}

	cmd, err := validator.ValidateReserveRequest(&req, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	bed, err := ctl.occupancy.ReserveForSuccessor(c.Request.Context(), *cmd)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, bed)
}
