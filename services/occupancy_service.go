package services

import (
	"context"
	"errors"
	"fmt"

	"hms/constants"
	"hms/dto"
	apperrors "hms/errors"
	"hms/models"
	"hms/services/logger"
	"hms/services/notification"
)

// lockRetryLimit bounds the read-then-lock loop when a resident's room
// changes between the unlocked read and the lock acquisition.
const lockRetryLimit = 5

// OccupancyService is the only writer of bed occupancy and resident room
// pointers. Each operation takes the affected room locks, then applies all
// entity updates inside one store transaction, claiming before releasing so
// a lost race never leaves a resident bedless.
type OccupancyService struct {
	store    OccupancyStore
	locks    *RoomLocks
	clock    Clock
	logger   logger.Logger
	notifier notification.Service
	cache    *AvailabilityCache
}

type OccupancyServiceOptions struct {
	Store    OccupancyStore
	Locks    *RoomLocks
	Clock    Clock
	Logger   logger.Logger
	Notifier notification.Service
	Cache    *AvailabilityCache
}

func NewOccupancyService(opts OccupancyServiceOptions) *OccupancyService {
	if opts.Locks == nil {
		opts.Locks = NewRoomLocks()
	}
	if opts.Clock == nil {
		opts.Clock = NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &OccupancyService{
		store:    opts.Store,
		locks:    opts.Locks,
		clock:    opts.Clock,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		cache:    opts.Cache,
	}
}

// AssignToRoom onboards a pending resident onto a free bed. The bed claim,
// the resident's status change and the denormalized room pointers commit as
// one unit.
func (s *OccupancyService) AssignToRoom(ctx context.Context, cmd dto.AssignCommand) (*models.Resident, error) {
	s.locks.Lock(cmd.RoomID)
	defer s.locks.Unlock(cmd.RoomID)

	now := s.clock.Now()
	var resident *models.Resident
	var propertyID uint

	err := s.store.Transaction(ctx, func(tx OccupancyStore) error {
		room, err := tx.GetRoom(ctx, cmd.RoomID)
		if err != nil {
			return s.wrap(err, "room %d", cmd.RoomID)
		}
		if !room.IsActive {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "room is not active", apperrors.ErrRoomInactive)
		}
		if err := room.ValidateBedNumber(cmd.BedNumber); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidBedNumber, err.Error(), apperrors.ErrInvalidBedNumber)
		}
		// a bed earmarked for a successor is off limits even while free; the
		// reconciler owns its next occupant
		if b := room.FindBed(cmd.BedNumber); b != nil && b.HasPendingReservation() {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				fmt.Sprintf("bed %s of room %d is reserved for a successor", cmd.BedNumber, room.ID),
				apperrors.ErrReservationConflict)
		}

		resident, err = tx.GetResident(ctx, cmd.ResidentID)
		if err != nil {
			return s.wrap(err, "resident %d", cmd.ResidentID)
		}
		if resident.HasRoom() || resident.Status != models.ResidentStatusPending {
			return apperrors.NewAppError(apperrors.ErrCodeAlreadyAssigned,
				fmt.Sprintf("resident %d already holds room %s bed %s", resident.ID, resident.RoomNumber, resident.BedNumber),
				apperrors.ErrAlreadyAssigned)
		}

		bed, err := tx.ClaimBed(ctx, room.ID, cmd.BedNumber, resident.ID, now)
		if err != nil {
			return s.wrap(err, "claim room %d bed %s", room.ID, cmd.BedNumber)
		}

		// resident-side compare-and-swap: a concurrent assign for the same
		// resident into another room fails here and rolls back its bed claim
		if err := tx.ActivateResident(ctx, resident.ID); err != nil {
			return s.wrap(err, "activate resident %d", resident.ID)
		}
		resident.Status = models.ResidentStatusActive
		resident.RoomID = &room.ID
		resident.RoomNumber = room.RoomNumber
		resident.BedNumber = bed.BedNumber
		resident.SharingType = room.SharingType
		resident.Cost = room.Cost
		resident.AdvanceAmount = cmd.AdvanceAmount
		resident.RentAmount = cmd.RentAmount
		if cmd.CheckInDate != nil {
			resident.CheckInDate = cmd.CheckInDate
		} else {
			resident.CheckInDate = &now
		}
		if cmd.ContractStartDate != nil {
			resident.ContractStartDate = cmd.ContractStartDate
		} else {
			resident.ContractStartDate = resident.CheckInDate
		}
		resident.ContractEndDate = cmd.ContractEndDate

		propertyID = room.PropertyID
		return tx.SaveResident(ctx, resident)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ resident %d assigned to room %s bed %s", resident.ID, resident.RoomNumber, resident.BedNumber)
	s.notify(notification.EventOnboarded, resident.ID, resident.RoomNumber, resident.BedNumber)
	s.invalidateAvailability(ctx, propertyID)
	return resident, nil
}

// Vacate ends or schedules the end of a residency. The immediate variant
// releases the bed and deactivates the resident; the notice variant keeps
// the bed occupied and records the vacation date.
func (s *OccupancyService) Vacate(ctx context.Context, cmd dto.VacateCommand) (*models.Resident, error) {
	if cmd.VacationType == constants.VacationTypeNotice {
		return s.vacateWithNotice(ctx, cmd)
	}
	return s.vacateImmediate(ctx, cmd)
}

func (s *OccupancyService) vacateImmediate(ctx context.Context, cmd dto.VacateCommand) (*models.Resident, error) {
	roomID, err := s.lockResidentRoom(ctx, cmd.ResidentID)
	if err != nil {
		return nil, err
	}
	defer s.locks.Unlock(roomID)

	now := s.clock.Now()
	var resident *models.Resident
	var propertyID uint

	err = s.store.Transaction(ctx, func(tx OccupancyStore) error {
		resident, err = tx.GetResident(ctx, cmd.ResidentID)
		if err != nil {
			return s.wrap(err, "resident %d", cmd.ResidentID)
		}
		if !resident.HasRoom() || *resident.RoomID != roomID {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "resident holds no bed", nil)
		}

		state := models.GetResidentState(resident.Status)
		if err := state.Deactivate(resident); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, err.Error(), nil)
		}

		if _, err := tx.ReleaseBed(ctx, roomID, resident.BedNumber, &resident.ID); err != nil {
			return s.wrap(err, "release room %d bed %s", roomID, resident.BedNumber)
		}

		room, err := tx.GetRoom(ctx, roomID)
		if err != nil {
			return s.wrap(err, "room %d", roomID)
		}
		propertyID = room.PropertyID

		resident.ClearRoomPointers()
		resident.ClearNotice()
		resident.CheckOutDate = &now
		return tx.SaveResident(ctx, resident)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ resident %d vacated immediately", resident.ID)
	s.notify(notification.EventVacated, resident.ID, "", "")
	s.invalidateAvailability(ctx, propertyID)
	return resident, nil
}

func (s *OccupancyService) vacateWithNotice(ctx context.Context, cmd dto.VacateCommand) (*models.Resident, error) {
	if cmd.NoticeDays < constants.MinNoticeDays || cmd.NoticeDays > constants.MaxNoticeDays {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidNoticeWindow,
			fmt.Sprintf("notice days must be between %d and %d", constants.MinNoticeDays, constants.MaxNoticeDays),
			apperrors.ErrInvalidNoticeWindow)
	}
	if cmd.VacationDate == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidNoticeWindow, "vacation date is required", apperrors.ErrInvalidNoticeWindow)
	}
	if cmd.VacationDate.Before(startOfNextDay(s.clock.Now())) {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidNoticeWindow,
			"vacation date must be in the future", apperrors.ErrInvalidNoticeWindow)
	}
	roomID, err := s.lockResidentRoom(ctx, cmd.ResidentID)
	if err != nil {
		return nil, err
	}
	defer s.locks.Unlock(roomID)

	var resident *models.Resident
	err = s.store.Transaction(ctx, func(tx OccupancyStore) error {
		resident, err = tx.GetResident(ctx, cmd.ResidentID)
		if err != nil {
			return s.wrap(err, "resident %d", cmd.ResidentID)
		}
		if !resident.HasRoom() || *resident.RoomID != roomID {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "resident holds no bed", nil)
		}

		state := models.GetResidentState(resident.Status)
		if err := state.StartNotice(resident); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, err.Error(), nil)
		}
		resident.VacationDate = cmd.VacationDate
		resident.NoticeDays = cmd.NoticeDays
		return tx.SaveResident(ctx, resident)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resident %d entered notice period until %s", resident.ID, cmd.VacationDate.Format("2006-01-02"))
	s.notify(notification.EventNoticeStarted, resident.ID, resident.RoomNumber, resident.BedNumber)
	return resident, nil
}

// SwitchRoom moves a resident to a free bed, claiming the target before
// releasing the source: if the claim loses a race the operation fails whole
// and the resident keeps the original bed.
func (s *OccupancyService) SwitchRoom(ctx context.Context, req dto.SwitchRoomRequest) (*models.Resident, error) {
	oldRoomID, err := s.residentRoomID(ctx, req.ResidentID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < lockRetryLimit; attempt++ {
		s.locks.LockPair(oldRoomID, req.NewRoomID)
		resident, movedRoomID, err := s.switchLocked(ctx, req, oldRoomID)
		s.locks.UnlockPair(oldRoomID, req.NewRoomID)
		if errors.Is(err, errRoomMoved) {
			oldRoomID = movedRoomID
			continue
		}
		return resident, err
	}
	return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "resident room kept changing, giving up", nil)
}

// errRoomMoved signals that the resident switched rooms between the
// unlocked read and the lock acquisition.
var errRoomMoved = errors.New("resident room changed")

func (s *OccupancyService) switchLocked(ctx context.Context, req dto.SwitchRoomRequest, lockedRoomID uint) (*models.Resident, uint, error) {
	now := s.clock.Now()
	var resident *models.Resident
	var movedRoomID uint
	var oldPropertyID, newPropertyID uint

	err := s.store.Transaction(ctx, func(tx OccupancyStore) error {
		var err error
		resident, err = tx.GetResident(ctx, req.ResidentID)
		if err != nil {
			return s.wrap(err, "resident %d", req.ResidentID)
		}
		if resident.Status != models.ResidentStatusActive && resident.Status != models.ResidentStatusNoticePeriod {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus,
				fmt.Sprintf("resident %d cannot switch rooms while %s", resident.ID, resident.Status), nil)
		}
		if !resident.HasRoom() {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "resident holds no bed", nil)
		}
		if *resident.RoomID != lockedRoomID {
			movedRoomID = *resident.RoomID
			return errRoomMoved
		}
		if *resident.RoomID == req.NewRoomID && resident.BedNumber == req.NewBedNumber {
			return apperrors.NewAppError(apperrors.ErrCodeBedUnavailable, "resident already occupies that bed", apperrors.ErrBedUnavailable)
		}

		oldRoom, err := tx.GetRoom(ctx, *resident.RoomID)
		if err != nil {
			return s.wrap(err, "room %d", *resident.RoomID)
		}
		oldBed := oldRoom.FindBed(resident.BedNumber)
		if oldBed != nil && oldBed.HasPendingReservation() {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				"current bed is reserved for a successor", apperrors.ErrReservationConflict)
		}

		newRoom, err := tx.GetRoom(ctx, req.NewRoomID)
		if err != nil {
			return s.wrap(err, "room %d", req.NewRoomID)
		}
		if !newRoom.IsActive {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "target room is not active", apperrors.ErrRoomInactive)
		}
		if err := newRoom.ValidateBedNumber(req.NewBedNumber); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidBedNumber, err.Error(), apperrors.ErrInvalidBedNumber)
		}
		if b := newRoom.FindBed(req.NewBedNumber); b != nil && b.HasPendingReservation() {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				"target bed is reserved for a successor", apperrors.ErrReservationConflict)
		}

		// claim first; only a successful claim may release the old bed
		newBed, err := tx.ClaimBed(ctx, newRoom.ID, req.NewBedNumber, resident.ID, now)
		if err != nil {
			return s.wrap(err, "claim room %d bed %s", newRoom.ID, req.NewBedNumber)
		}
		if _, err := tx.ReleaseBed(ctx, oldRoom.ID, resident.BedNumber, &resident.ID); err != nil {
			return s.wrap(err, "release room %d bed %s", oldRoom.ID, resident.BedNumber)
		}

		record := &models.SwitchRecord{
			ResidentID:  resident.ID,
			FromRoom:    oldRoom.RoomNumber,
			FromBed:     resident.BedNumber,
			ToRoom:      newRoom.RoomNumber,
			ToBed:       newBed.BedNumber,
			SwitchDate:  now,
			Reason:      req.Reason,
			PerformedBy: req.PerformedBy,
		}

		resident.RoomID = &newRoom.ID
		resident.RoomNumber = newRoom.RoomNumber
		resident.BedNumber = newBed.BedNumber
		resident.SharingType = newRoom.SharingType
		resident.Cost = newRoom.Cost

		oldPropertyID = oldRoom.PropertyID
		newPropertyID = newRoom.PropertyID

		if err := tx.SaveResident(ctx, resident); err != nil {
			return err
		}
		return tx.AppendSwitchRecord(ctx, record)
	})
	if err != nil {
		return nil, movedRoomID, err
	}

	s.logger.Info("✅ resident %d switched to room %s bed %s", resident.ID, resident.RoomNumber, resident.BedNumber)
	s.notify(notification.EventSwitched, resident.ID, resident.RoomNumber, resident.BedNumber)
	s.invalidateAvailability(ctx, oldPropertyID)
	if newPropertyID != oldPropertyID {
		s.invalidateAvailability(ctx, newPropertyID)
	}
	return resident, movedRoomID, nil
}

// ReserveForSuccessor attaches a pending reservation to a bed whose
// occupant is serving notice. Occupancy itself does not change.
func (s *OccupancyService) ReserveForSuccessor(ctx context.Context, cmd dto.ReserveCommand) (*models.Bed, error) {
	s.locks.Lock(cmd.RoomID)
	defer s.locks.Unlock(cmd.RoomID)

	now := s.clock.Now()
	var bed *models.Bed

	err := s.store.Transaction(ctx, func(tx OccupancyStore) error {
		room, err := tx.GetRoom(ctx, cmd.RoomID)
		if err != nil {
			return s.wrap(err, "room %d", cmd.RoomID)
		}
		if err := room.ValidateBedNumber(cmd.BedNumber); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeInvalidBedNumber, err.Error(), apperrors.ErrInvalidBedNumber)
		}
		bed = room.FindBed(cmd.BedNumber)
		if bed == nil {
			return apperrors.NewAppError(apperrors.ErrCodeBedNotFound,
				fmt.Sprintf("room %d has no bed %s", cmd.RoomID, cmd.BedNumber), apperrors.ErrBedNotFound)
		}
		if !bed.IsOccupied || bed.OccupiedBy == nil {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				"bed has no occupant to succeed", apperrors.ErrReservationConflict)
		}
		if bed.HasPendingReservation() {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				"bed already has a pending reservation", apperrors.ErrReservationConflict)
		}

		occupant, err := tx.GetResident(ctx, *bed.OccupiedBy)
		if err != nil {
			return s.wrap(err, "occupant %d", *bed.OccupiedBy)
		}
		if occupant.Status != models.ResidentStatusNoticePeriod {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				"occupant is not serving notice", apperrors.ErrReservationConflict)
		}

		successor, err := tx.GetResident(ctx, cmd.NewResidentID)
		if err != nil {
			return s.wrap(err, "successor %d", cmd.NewResidentID)
		}
		if successor.HasRoom() || successor.Status != models.ResidentStatusPending {
			return apperrors.NewAppError(apperrors.ErrCodeAlreadyAssigned,
				fmt.Sprintf("successor %d already holds a room", successor.ID), apperrors.ErrAlreadyAssigned)
		}
		reserved, err := tx.HasPendingReservationFor(ctx, successor.ID)
		if err != nil {
			return err
		}
		if reserved {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict,
				fmt.Sprintf("resident %d is already the successor of another reservation", successor.ID),
				apperrors.ErrReservationConflict)
		}

		if err := bed.Reserve(occupant.ID, successor.ID, cmd.ExpectedAvailabilityDate, now); err != nil {
			return apperrors.NewAppError(apperrors.ErrCodeReservationConflict, err.Error(), err)
		}
		return tx.SaveBed(ctx, bed)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bed %s of room %d reserved for resident %d", cmd.BedNumber, cmd.RoomID, cmd.NewResidentID)
	return bed, nil
}

// lockResidentRoom locks the room the resident currently occupies,
// re-reading after acquisition because a concurrent switch may have moved
// the resident in the meantime.
func (s *OccupancyService) lockResidentRoom(ctx context.Context, residentID uint) (uint, error) {
	roomID, err := s.residentRoomID(ctx, residentID)
	if err != nil {
		return 0, err
	}
	for attempt := 0; attempt < lockRetryLimit; attempt++ {
		s.locks.Lock(roomID)
		current, err := s.residentRoomID(ctx, residentID)
		if err != nil {
			s.locks.Unlock(roomID)
			return 0, err
		}
		if current == roomID {
			return roomID, nil
		}
		s.locks.Unlock(roomID)
		roomID = current
	}
	return 0, apperrors.NewAppError(apperrors.ErrCodeDBError, "resident room kept changing, giving up", nil)
}

func (s *OccupancyService) residentRoomID(ctx context.Context, residentID uint) (uint, error) {
	resident, err := s.store.GetResident(ctx, residentID)
	if err != nil {
		return 0, s.wrap(err, "resident %d", residentID)
	}
	if !resident.HasRoom() {
		return 0, apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "resident holds no bed", nil)
	}
	return *resident.RoomID, nil
}

// wrap turns store sentinels into coded AppErrors; AppErrors pass through.
func (s *OccupancyService) wrap(err error, format string, args ...interface{}) error {
	if apperrors.IsAppError(err) {
		return err
	}
	detail := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, apperrors.ErrRoomNotFound):
		return apperrors.NewAppError(apperrors.ErrCodeRoomNotFound, detail, err)
	case errors.Is(err, apperrors.ErrResidentNotFound):
		return apperrors.NewAppError(apperrors.ErrCodeResidentNotFound, detail, err)
	case errors.Is(err, apperrors.ErrBedNotFound):
		return apperrors.NewAppError(apperrors.ErrCodeBedNotFound, detail, err)
	case errors.Is(err, apperrors.ErrBedUnavailable):
		return apperrors.NewAppError(apperrors.ErrCodeBedUnavailable, detail, err)
	case errors.Is(err, apperrors.ErrBedAlreadyAvailable):
		return apperrors.NewAppError(apperrors.ErrCodeBedAlreadyAvailable, detail, err)
	case errors.Is(err, apperrors.ErrAlreadyAssigned):
		return apperrors.NewAppError(apperrors.ErrCodeAlreadyAssigned, detail, err)
	default:
		return apperrors.NewAppError(apperrors.ErrCodeDBError, detail, err)
	}
}

func (s *OccupancyService) notify(event string, residentID uint, roomNumber, bedNumber string) {
	if s.notifier == nil {
		return
	}
	message := notification.NewMessageBuilder(event, residentID, roomNumber, bedNumber).Build()
	if err := s.notifier.SendMessage(message); err != nil {
		s.logger.Error("❌ failed to send %s notification: %v", event, err)
	}
}

func (s *OccupancyService) invalidateAvailability(ctx context.Context, propertyID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, propertyID); err != nil {
		s.logger.Error("failed to invalidate availability cache for property %d: %v", propertyID, err)
	}
}
