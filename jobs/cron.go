package jobs

import (
	"context"
	"log"

	"hms/dto"

	"github.com/robfig/cron/v3"
)

// ReservationReconciler matures pending bed reservations
type ReservationReconciler interface {
	ProcessMaturedReservations(ctx context.Context) (*dto.ReconcileResult, error)
}

// VacationRunner ends residencies whose notice period has elapsed
type VacationRunner interface {
	ProcessDueVacations(ctx context.Context) (*dto.VacationResult, error)
}

var (
	reservationReconciler ReservationReconciler
	vacationRunner        VacationRunner
)

// SetReservationReconciler installs the reconciler implementation
func SetReservationReconciler(r ReservationReconciler) {
	reservationReconciler = r
}

// SetVacationRunner installs the vacation processor implementation
func SetVacationRunner(v VacationRunner) {
	vacationRunner = v
}

// InitCronJobs schedules both background routines: reservations hourly,
// vacations once a day shortly after midnight.
func InitCronJobs(c *cron.Cron) error {
	_, err := c.AddFunc("@hourly", func() {
		if reservationReconciler == nil {
			log.Printf("reservation reconciler not configured, skipping run")
			return
		}
		result, err := reservationReconciler.ProcessMaturedReservations(context.Background())
		if err != nil {
			log.Printf("reservation reconcile run failed: %v", err)
			return
		}
		log.Printf("reservation reconcile: %d processed, %d errors", result.ProcessedCount, len(result.Errors))
	})
	if err != nil {
		return err
	}

	_, err = c.AddFunc("30 0 * * *", func() {
		if vacationRunner == nil {
			log.Printf("vacation runner not configured, skipping run")
			return
		}
		result, err := vacationRunner.ProcessDueVacations(context.Background())
		if err != nil {
			log.Printf("vacation run failed: %v", err)
			return
		}
		log.Printf("vacation run: %d found, %d processed, %d errors",
			result.TotalFound, result.ProcessedCount, result.ErrorCount)
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
