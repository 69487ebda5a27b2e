package services

import (
	"context"
	"errors"
	"fmt"

	"hms/dto"
	apperrors "hms/errors"
	"hms/models"
	"hms/services/logger"
	"hms/services/notification"
)

// NoticeReconciler matures pending bed reservations: once the expected
// availability date is reached it moves the outgoing resident out and hands
// the bed to the reserved successor. Each reservation is processed
// independently; one failure never aborts the scan.
type NoticeReconciler struct {
	store    OccupancyStore
	locks    *RoomLocks
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
	cache    *AvailabilityCache
}

type NoticeReconcilerOptions struct {
	Store    OccupancyStore
	Locks    *RoomLocks
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
	Cache    *AvailabilityCache
}

func NewNoticeReconciler(opts NoticeReconcilerOptions) *NoticeReconciler {
	if opts.Locks == nil {
		opts.Locks = NewRoomLocks()
	}
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &NoticeReconciler{
		store:    opts.Store,
		locks:    opts.Locks,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		cache:    opts.Cache,
	}
}

// ProcessMaturedReservations scans all beds carrying a matured pending
// reservation and completes each handover. Re-running is a no-op for
// already-completed reservations.
func (s *NoticeReconciler) ProcessMaturedReservations(ctx context.Context) (*dto.ReconcileResult, error) {
	now := s.clock.Now()
	beds, err := s.store.ListMaturedReservations(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResult{Errors: []string{}}
	for i := range beds {
		processed, err := s.processReservation(ctx, beds[i].RoomID, beds[i].BedNumber)
		if err != nil {
			s.logger.Error("❌ reservation on room %d bed %s: %v", beds[i].RoomID, beds[i].BedNumber, err)
			result.Errors = append(result.Errors, fmt.Sprintf("room %d bed %s: %v", beds[i].RoomID, beds[i].BedNumber, err))
			continue
		}
		if processed {
			result.ProcessedCount++
		}
	}

	s.logger.Info("reservation reconcile finished: %d processed, %d errors", result.ProcessedCount, len(result.Errors))
	return result, nil
}

func (s *NoticeReconciler) processReservation(ctx context.Context, roomID uint, bedNumber string) (bool, error) {
	s.locks.Lock(roomID)
	defer s.locks.Unlock(roomID)

	now := s.clock.Now()
	processed := false
	var cancelled string
	var successorID uint
	var roomNumber string
	var propertyID uint

	err := s.store.Transaction(ctx, func(tx OccupancyStore) error {
		room, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		bed := room.FindBed(bedNumber)
		if bed == nil {
			return apperrors.ErrBedNotFound
		}
		// another run or a manual trigger may have handled it already
		if !bed.ReservationMatured(now) {
			return nil
		}
		// a cancellation must commit, so it is recorded here and reported
		// after the transaction instead of through the error return
		if bed.Reservation.NewResidentID == nil {
			bed.CancelReservation()
			if err := tx.SaveBed(ctx, bed); err != nil {
				return err
			}
			cancelled = "reservation has no successor, cancelled"
			return nil
		}
		// the handover only covers the reserved outgoing resident; any other
		// occupant keeps the bed and the stale reservation is dropped
		if bed.OccupiedBy != nil &&
			(bed.Reservation.CurrentResidentID == nil || *bed.OccupiedBy != *bed.Reservation.CurrentResidentID) {
			bed.CancelReservation()
			if err := tx.SaveBed(ctx, bed); err != nil {
				return err
			}
			cancelled = fmt.Sprintf("bed occupant %d is not the reserved outgoing resident, reservation cancelled", *bed.OccupiedBy)
			return nil
		}

		successor, err := tx.GetResident(ctx, *bed.Reservation.NewResidentID)
		if err != nil {
			return fmt.Errorf("successor %d: %w", *bed.Reservation.NewResidentID, err)
		}
		if successor.HasRoom() || successor.Status != models.ResidentStatusPending {
			bed.CancelReservation()
			if err := tx.SaveBed(ctx, bed); err != nil {
				return err
			}
			cancelled = fmt.Sprintf("successor %d no longer pending, reservation cancelled", successor.ID)
			return nil
		}

		// move the outgoing occupant out, if still there
		if bed.OccupiedBy != nil {
			outgoing, err := tx.GetResident(ctx, *bed.OccupiedBy)
			if err != nil {
				return fmt.Errorf("outgoing resident %d: %w", *bed.OccupiedBy, err)
			}
			if outgoing.Status == models.ResidentStatusNoticePeriod {
				state := models.GetResidentState(outgoing.Status)
				if err := state.MoveOut(outgoing); err != nil {
					return err
				}
				outgoing.ClearRoomPointers()
				outgoing.ClearNotice()
				outgoing.CheckOutDate = &now
				if err := tx.SaveResident(ctx, outgoing); err != nil {
					return err
				}
			}
		}

		// transfer occupancy through the same primitives as everyone else;
		// an already-free bed (occupant vacated early) is fine
		if _, err := tx.ReleaseBed(ctx, roomID, bedNumber, nil); err != nil &&
			!errors.Is(err, apperrors.ErrBedAlreadyAvailable) {
			return err
		}
		claimed, err := tx.ClaimBed(ctx, roomID, bedNumber, successor.ID, now)
		if err != nil {
			return err
		}

		if err := tx.ActivateResident(ctx, successor.ID); err != nil {
			return err
		}
		successor.Status = models.ResidentStatusActive
		successor.RoomID = &room.ID
		successor.RoomNumber = room.RoomNumber
		successor.BedNumber = claimed.BedNumber
		successor.SharingType = room.SharingType
		successor.Cost = room.Cost
		successor.CheckInDate = &now
		if successor.ContractStartDate == nil {
			successor.ContractStartDate = &now
		}
		if err := tx.SaveResident(ctx, successor); err != nil {
			return err
		}

		claimed.Reservation = bed.Reservation
		claimed.CompleteReservation()
		if err := tx.SaveBed(ctx, claimed); err != nil {
			return err
		}

		processed = true
		successorID = successor.ID
		roomNumber = room.RoomNumber
		propertyID = room.PropertyID
		return nil
	})
	if err != nil {
		return false, err
	}
	if cancelled != "" {
		return false, errors.New(cancelled)
	}

	if processed {
		s.logger.Info("✅ reservation matured: resident %d now occupies room %s bed %s", successorID, roomNumber, bedNumber)
		if s.notifier != nil {
			message := notification.NewMessageBuilder(notification.EventReservationMatured, successorID, roomNumber, bedNumber).Build()
			if err := s.notifier.SendMessage(message); err != nil {
				s.logger.Error("❌ failed to send reservation notification: %v", err)
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
