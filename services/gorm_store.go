package services

import (
	"context"
	"errors"
	"time"

	apperrors "hms/errors"
	"hms/models"

	"gorm.io/gorm"
)

// GormStore implements OccupancyStore on Postgres through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(OccupancyStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetRoom(ctx context.Context, roomID uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Preload("Beds", func(db *gorm.DB) *gorm.DB {
			return db.Order("bed_number")
		}).
		First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to load room", err)
	}
	return &room, nil
}

func (s *GormStore) GetResident(ctx context.Context, residentID uint) (*models.Resident, error) {
	var resident models.Resident
	err := s.db.WithContext(ctx).First(&resident, residentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrResidentNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to load resident", err)
	}
	return &resident, nil
}

func (s *GormStore) SaveResident(ctx context.Context, resident *models.Resident) error {
	if err := s.db.WithContext(ctx).Omit("SwitchHistory").Save(resident).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to save resident", err)
	}
	return nil
}

// ActivateResident is a compare-and-swap on the resident status: the
// conditional UPDATE succeeds only while the resident is still pending and
// roomless.
func (s *GormStore) ActivateResident(ctx context.Context, residentID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Resident{}).
		Where("id = ? AND status = ? AND room_id IS NULL", residentID, models.ResidentStatusPending).
		Update("status", models.ResidentStatusActive)
	if res.Error != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to activate resident", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetResident(ctx, residentID); err != nil {
			return err
		}
		return apperrors.ErrAlreadyAssigned
	}
	return nil
}

func (s *GormStore) SaveBed(ctx context.Context, bed *models.Bed) error {
	if err := s.db.WithContext(ctx).Save(bed).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to save bed", err)
	}
	return nil
}

// ClaimBed is a compare-and-swap on is_occupied: the conditional UPDATE
// succeeds for exactly one of any number of concurrent claimers.
func (s *GormStore) ClaimBed(ctx context.Context, roomID uint, bedNumber string, residentID uint, at time.Time) (*models.Bed, error) {
	res := s.db.WithContext(ctx).Model(&models.Bed{}).
		Where("room_id = ? AND bed_number = ? AND is_occupied = ?", roomID, bedNumber, false).
		Updates(map[string]interface{}{
			"is_occupied": true,
			"occupied_by": residentID,
			"occupied_at": at,
		})
	if res.Error != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to claim bed", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.getBed(ctx, roomID, bedNumber); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrBedUnavailable
	}
	return s.getBed(ctx, roomID, bedNumber)
}

func (s *GormStore) ReleaseBed(ctx context.Context, roomID uint, bedNumber string, expectedOccupant *uint) (*models.Bed, error) {
	query := s.db.WithContext(ctx).Model(&models.Bed{}).
		Where("room_id = ? AND bed_number = ? AND is_occupied = ?", roomID, bedNumber, true)
	if expectedOccupant != nil {
		query = query.Where("occupied_by = ?", *expectedOccupant)
	}
	res := query.Updates(map[string]interface{}{
		"is_occupied": false,
		"occupied_by": nil,
		"occupied_at": nil,
	})
	if res.Error != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to release bed", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.getBed(ctx, roomID, bedNumber); err != nil {
			return nil, err
		}
		// bed exists but is free, or occupied by someone else: either way
		// there is nothing for this caller to release
		return nil, apperrors.ErrBedAlreadyAvailable
	}
	return s.getBed(ctx, roomID, bedNumber)
}

func (s *GormStore) getBed(ctx context.Context, roomID uint, bedNumber string) (*models.Bed, error) {
	var bed models.Bed
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND bed_number = ?", roomID, bedNumber).
		First(&bed).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBedNotFound
		}
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to load bed", err)
	}
	return &bed, nil
}

func (s *GormStore) AppendSwitchRecord(ctx context.Context, record *models.SwitchRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to append switch record", err)
	}
	return nil
}

func (s *GormStore) ListSwitchHistory(ctx context.Context, residentID uint) ([]models.SwitchRecord, error) {
	var records []models.SwitchRecord
	err := s.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("switch_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to load switch history", err)
	}
	return records, nil
}

func (s *GormStore) ListRoomsWithFreeBeds(ctx context.Context, propertyID uint, sharingType int) ([]models.Room, error) {
	free := s.db.Model(&models.Bed{}).Select("room_id").Where("is_occupied = ?", false)
	query := s.db.WithContext(ctx).
		Preload("Beds", func(db *gorm.DB) *gorm.DB {
			return db.Order("bed_number")
		}).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Where("id IN (?)", free)
	if sharingType > 0 {
		query = query.Where("sharing_type = ?", sharingType)
	}
	var rooms []models.Room
	if err := query.Order("room_number").Find(&rooms).Error; err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to list available rooms", err)
	}
	return rooms, nil
}

func (s *GormStore) ListMaturedReservations(ctx context.Context, asOf time.Time) ([]models.Bed, error) {
	var beds []models.Bed
	err := s.db.WithContext(ctx).
		Where("reservation_status = ? AND reservation_expected_availability_date <= ?",
			models.ReservationStatusPending, asOf).
		Find(&beds).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to list matured reservations", err)
	}
	return beds, nil
}

func (s *GormStore) ListDueNoticeResidents(ctx context.Context, cutoff time.Time) ([]models.Resident, error) {
	var residents []models.Resident
	err := s.db.WithContext(ctx).
		Where("status = ? AND vacation_date IS NOT NULL AND vacation_date < ?",
			models.ResidentStatusNoticePeriod, cutoff).
		Find(&residents).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to list due residents", err)
	}
	return residents, nil
}

func (s *GormStore) HasPendingReservationFor(ctx context.Context, residentID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Bed{}).
		Where("reservation_status = ? AND reservation_new_resident_id = ?",
			models.ReservationStatusPending, residentID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to check reservations", err)
	}
	return count > 0, nil
}

func (s *GormStore) ResidentStatuses(ctx context.Context, ids []uint) (map[uint]string, error) {
	statuses := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return statuses, nil
	}
	var rows []struct {
		ID     uint
		Status string
	}
	err := s.db.WithContext(ctx).Model(&models.Resident{}).
		Select("id", "status").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeDBError, "failed to load resident statuses", err)
	}
	for _, row := range rows {
		statuses[row.ID] = row.Status
	}
	return statuses, nil
}
