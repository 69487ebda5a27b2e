package routes

import (
	"hms/constants"
	"hms/controllers"
	middlewares "hms/middleware"
	"hms/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the occupancy endpoints. Mutations require a manager or
// super-admin token; wardens may additionally trigger the background runs.
func SetupRoutes(
	router *gin.Engine,
	occupancy *services.OccupancyService,
	rooms *services.RoomService,
	reconciler *services.NoticeReconciler,
	vacations *services.VacationProcessor,
) {
	residentController := controllers.NewResidentController(occupancy, rooms)
	roomController := controllers.NewRoomController(occupancy, rooms)
	reconcileController := controllers.NewReconcileController(reconciler, vacations)

	v1 := router.Group("/api/v1")

	v1.POST("/residents/assign",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager),
		residentController.AssignToRoom)
	v1.POST("/residents/vacate",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager),
		residentController.Vacate)
	v1.POST("/residents/switch",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager),
		residentController.SwitchRoom)
	v1.GET("/residents/:id/switch-history",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager, constants.RoleWarden),
		residentController.GetSwitchHistory)

	v1.GET("/rooms/available", roomController.GetAvailableRooms)
	v1.POST("/beds/reserve",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager),
		roomController.ReserveBed)

	v1.POST("/reconcile/reservations",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager, constants.RoleWarden),
		reconcileController.RunReservationReconcile)
	v1.POST("/reconcile/vacations",
		middlewares.AuthMiddleware(constants.RoleSuperAdmin, constants.RoleManager, constants.RoleWarden),
		reconcileController.RunVacationProcessing)
}
