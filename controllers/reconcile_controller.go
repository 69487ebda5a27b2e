package controllers

import (
	"hms/response"
	"hms/services"
	"hms/utils"

	"github.com/gin-gonic/gin"
)

// ReconcileController exposes manual triggers for the two background
// routines; the cron scheduler runs the same code paths.
type ReconcileController struct {
	reconciler *services.NoticeReconciler
	vacations  *services.VacationProcessor
}

func NewReconcileController(reconciler *services.NoticeReconciler, vacations *services.VacationProcessor) *ReconcileController {
	return &ReconcileController{
		reconciler: reconciler,
		vacations:  vacations,
	}
}

// RunReservationReconcile processes all matured bed reservations
func (ctl *ReconcileController) RunReservationReconcile(c *gin.Context) {
	result, err := ctl.reconciler.ProcessMaturedReservations(c.Request.Context())
	if err != nil {
		utils.LogError("manual reservation reconcile failed: %v", err)
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// RunVacationProcessing processes all residents whose notice period elapsed
func (ctl *ReconcileController) RunVacationProcessing(c *gin.Context) {
	result, err := ctl.vacations.ProcessDueVacations(c.Request.Context())
	if err != nil {
		utils.LogError("manual vacation processing failed: %v", err)
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}
