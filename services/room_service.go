package services

import (
	"context"
	"errors"

	"hms/constants"
	"hms/dto"
	apperrors "hms/errors"
	"hms/models"
	"hms/services/logger"
)

// RoomService serves the read-only projections used by the onboarding and
// switch-selection screens. Availability data may be a few minutes stale;
// any subsequent claim re-checks under the room lock.
type RoomService struct {
	store  OccupancyStore
	cache  *AvailabilityCache
	logger logger.Logger
}

func NewRoomService(store OccupancyStore, cache *AvailabilityCache, log logger.Logger) *RoomService {
	if log == nil {
		log = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RoomService{
		store:  store,
		cache:  cache,
		logger: log,
	}
}

// GetAvailableRooms lists active rooms of a property with at least one free
// bed, each bed annotated with its occupant state. sharingType 0 means all.
func (s *RoomService) GetAvailableRooms(ctx context.Context, propertyID uint, sharingType int) ([]dto.AvailableRoomResponse, error) {
	if s.cache != nil {
		var cached []dto.AvailableRoomResponse
		hit, err := s.cache.Get(ctx, propertyID, sharingType, &cached)
		if err != nil {
			s.logger.Error("availability cache read failed: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	rooms, err := s.store.ListRoomsWithFreeBeds(ctx, propertyID, sharingType)
	if err != nil {
		return nil, err
	}

	var occupantIDs []uint
	for i := range rooms {
		for j := range rooms[i].Beds {
			if rooms[i].Beds[j].OccupiedBy != nil {
				occupantIDs = append(occupantIDs, *rooms[i].Beds[j].OccupiedBy)
			}
		}
	}
	statuses, err := s.store.ResidentStatuses(ctx, occupantIDs)
	if err != nil {
		return nil, err
	}

	result := make([]dto.AvailableRoomResponse, 0, len(rooms))
	for i := range rooms {
		room := &rooms[i]
		item := dto.AvailableRoomResponse{
			RoomID:         room.ID,
			RoomNumber:     room.RoomNumber,
			Floor:          room.Floor,
			SharingType:    room.SharingType,
			Cost:           room.Cost,
			FreeBeds:       room.FreeBedCount(),
			FullyOccupied:  room.FullyOccupied(),
			HasAnyOccupant: room.HasAnyOccupant(),
		}
		for j := range room.Beds {
			bed := &room.Beds[j]
			item.Beds = append(item.Beds, dto.BedAvailability{
				BedNumber:  bed.BedNumber,
				Status:     bedState(bed, statuses),
				OccupantID: bed.OccupiedBy,
			})
		}
		result = append(result, item)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, propertyID, sharingType, result); err != nil {
			s.logger.Error("availability cache write failed: %v", err)
		}
	}
	return result, nil
}

func bedState(bed *models.Bed, statuses map[uint]string) string {
	if !bed.IsOccupied || bed.OccupiedBy == nil {
		return constants.BedStateAvailable
	}
	if statuses[*bed.OccupiedBy] == models.ResidentStatusNoticePeriod {
		return constants.BedStateNoticeOccupant
	}
	return constants.BedStateActiveOccupant
}

// GetSwitchHistory returns a resident's switch records, newest first.
func (s *RoomService) GetSwitchHistory(ctx context.Context, residentID uint) ([]dto.SwitchRecordResponse, error) {
	if _, err := s.store.GetResident(ctx, residentID); err != nil {
		if errors.Is(err, apperrors.ErrResidentNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrCodeResidentNotFound, "resident not found", err)
		}
		return nil, err
	}
	records, err := s.store.ListSwitchHistory(ctx, residentID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SwitchRecordResponse, 0, len(records))
	for _, record := range records {
		result = append(result, dto.SwitchRecordResponse{
			FromRoom:    record.FromRoom,
			FromBed:     record.FromBed,
			ToRoom:      record.ToRoom,
			ToBed:       record.ToBed,
			SwitchDate:  record.SwitchDate,
			Reason:      record.Reason,
			PerformedBy: record.PerformedBy,
		})
	}
	return result, nil
}
