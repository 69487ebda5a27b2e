package services

import (
	"context"
	"errors"
	"time"

	"hms/dto"
	apperrors "hms/errors"
	"hms/models"
	"hms/services/logger"
	"hms/services/notification"
)

// VacationProcessor terminates residencies whose notice period has elapsed:
// it releases the bed and moves the resident to a terminal state. Beds
// carrying a pending reservation are left to the notice reconciler.
type VacationProcessor struct {
	store    OccupancyStore
	locks    *RoomLocks
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
	cache    *AvailabilityCache
}

type VacationProcessorOptions struct {
	Store    OccupancyStore
	Locks    *RoomLocks
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
	Cache    *AvailabilityCache
}

func NewVacationProcessor(opts VacationProcessorOptions) *VacationProcessor {
	if opts.Locks == nil {
		opts.Locks = NewRoomLocks()
	}
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &VacationProcessor{
		store:    opts.Store,
		locks:    opts.Locks,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		cache:    opts.Cache,
	}
}

// ProcessDueVacations scans notice-period residents whose vacation date has
// passed (day granularity) and ends each residency independently.
func (s *VacationProcessor) ProcessDueVacations(ctx context.Context) (*dto.VacationResult, error) {
	cutoff := startOfNextDay(s.clock.Now())
	residents, err := s.store.ListDueNoticeResidents(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := &dto.VacationResult{TotalFound: len(residents)}
	for i := range residents {
		processed, err := s.processResident(ctx, residents[i].ID)
		if err != nil {
			s.logger.Error("❌ vacation of resident %d: %v", residents[i].ID, err)
			result.ErrorCount++
			continue
		}
		if processed {
			result.ProcessedCount++
		}
	}

	s.logger.Info("vacation run finished: %d found, %d processed, %d errors",
		result.TotalFound, result.ProcessedCount, result.ErrorCount)
	return result, nil
}

func (s *VacationProcessor) processResident(ctx context.Context, residentID uint) (bool, error) {
	resident, err := s.store.GetResident(ctx, residentID)
	if err != nil {
		return false, err
	}
	if !resident.HasRoom() {
		return s.deactivateRoomless(ctx, residentID)
	}

	roomID := *resident.RoomID
	s.locks.Lock(roomID)
	defer s.locks.Unlock(roomID)

	now := s.clock.Now()
	processed := false
	var propertyID uint

	err = s.store.Transaction(ctx, func(tx OccupancyStore) error {
		resident, err := tx.GetResident(ctx, residentID)
		if err != nil {
			return err
		}
		// idempotent re-scan: the reconciler or a manual vacate may have
		// finished this resident since the listing
		if resident.Status != models.ResidentStatusNoticePeriod {
			return nil
		}
		if resident.VacationDate == nil || !sameOrBeforeDay(*resident.VacationDate, now) {
			return nil
		}
		if !resident.HasRoom() {
			return s.finishResident(ctx, tx, resident, now)
		}

		room, err := tx.GetRoom(ctx, *resident.RoomID)
		if err != nil {
			return err
		}
		bed := room.FindBed(resident.BedNumber)
		if bed != nil && bed.HasPendingReservation() {
			// the bed is promised to a successor; the reconciler owns the
			// handover and the outgoing resident's terminal transition
			s.logger.Info("skipping resident %d: bed %s of room %s awaits its successor",
				resident.ID, resident.BedNumber, room.RoomNumber)
			return nil
		}

		if _, err := tx.ReleaseBed(ctx, room.ID, resident.BedNumber, &resident.ID); err != nil {
			if !errors.Is(err, apperrors.ErrBedAlreadyAvailable) {
				return err
			}
			// bed already freed or handed over: leave it untouched, the
			// resident still gets the terminal transition
			s.logger.Info("bed %s of room %s already released for resident %d", resident.BedNumber, room.RoomNumber, resident.ID)
		}

		propertyID = room.PropertyID
		if err := s.finishResident(ctx, tx, resident, now); err != nil {
			return err
		}
		processed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if processed {
		s.logger.Info("✅ resident %d vacated after notice period", residentID)
		if s.notifier != nil {
			message := notification.NewMessageBuilder(notification.EventVacated, residentID, "", "").Build()
			if err := s.notifier.SendMessage(message); err != nil {
				s.logger.Error("❌ failed to send vacation notification: %v", err)
			}
		}
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, propertyID); err != nil {
				s.logger.Error("failed to invalidate availability cache for property %d: %v", propertyID, err)
			}
		}
	}
	return processed, nil
}

func (s *VacationProcessor) deactivateRoomless(ctx context.Context, residentID uint) (bool, error) {
	now := s.clock.Now()
	processed := false
	err := s.store.Transaction(ctx, func(tx OccupancyStore) error {
		resident, err := tx.GetResident(ctx, residentID)
		if err != nil {
			return err
		}
		if resident.Status != models.ResidentStatusNoticePeriod {
			return nil
		}
		if err := s.finishResident(ctx, tx, resident, now); err != nil {
			return err
		}
		processed = true
		return nil
	})
	return processed, err
}

func (s *VacationProcessor) finishResident(ctx context.Context, tx OccupancyStore, resident *models.Resident, now time.Time) error {
	state := models.GetResidentState(resident.Status)
	if err := state.Deactivate(resident); err != nil {
		return err
	}
	resident.ClearRoomPointers()
	resident.ClearNotice()
	resident.CheckOutDate = &now
	return tx.SaveResident(ctx, resident)
}
