package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hms/constants"
	"hms/dto"
	apperrors "hms/errors"
)

var now = time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestValidateAssignRequest(t *testing.T) {
	cmd, err := ValidateAssignRequest(&dto.AssignToRoomRequest{
		ResidentID:        1,
		RoomID:            2,
		BedNumber:         "3",
		CheckInDate:       "2026-03-05",
		ContractStartDate: "2026-03-05",
		ContractEndDate:   "2027-03-04",
		AdvanceAmount:     12000,
		RentAmount:        6000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), cmd.ResidentID)
	assert.Equal(t, "3", cmd.BedNumber)
	require.NotNil(t, cmd.CheckInDate)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), *cmd.CheckInDate)
	require.NotNil(t, cmd.ContractEndDate)
}

func TestValidateAssignRequestOptionalDates(t *testing.T) {
	cmd, err := ValidateAssignRequest(&dto.AssignToRoomRequest{ResidentID: 1, RoomID: 2, BedNumber: "1"})
	require.NoError(t, err)
	assert.Nil(t, cmd.CheckInDate)
	assert.Nil(t, cmd.ContractStartDate)
	assert.Nil(t, cmd.ContractEndDate)
}

func TestValidateAssignRequestRejectsBadInput(t *testing.T) {
	_, err := ValidateAssignRequest(&dto.AssignToRoomRequest{ResidentID: 1, RoomID: 2, BedNumber: "A"})
	assertCode(t, err, apperrors.ErrCodeInvalidBedNumber)

	_, err = ValidateAssignRequest(&dto.AssignToRoomRequest{ResidentID: 1, RoomID: 2, BedNumber: "1", RentAmount: -1})
	assertCode(t, err, apperrors.ErrCodeValidation)

	_, err = ValidateAssignRequest(&dto.AssignToRoomRequest{ResidentID: 1, RoomID: 2, BedNumber: "1", CheckInDate: "05-03-2026"})
	assertCode(t, err, apperrors.ErrCodeInvalidFormat)

	_, err = ValidateAssignRequest(&dto.AssignToRoomRequest{
		ResidentID: 1, RoomID: 2, BedNumber: "1",
		ContractStartDate: "2026-03-05", ContractEndDate: "2026-03-04",
	})
	assertCode(t, err, apperrors.ErrCodeValidation)
}

func TestValidateVacateImmediate(t *testing.T) {
	cmd, err := ValidateVacateRequest(&dto.VacateRequest{
		ResidentID:   1,
		VacationType: constants.VacationTypeImmediate,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, constants.VacationTypeImmediate, cmd.VacationType)
	assert.Nil(t, cmd.VacationDate)
}

func TestValidateVacateNotice(t *testing.T) {
	cmd, err := ValidateVacateRequest(&dto.VacateRequest{
		ResidentID:   1,
		VacationType: constants.VacationTypeNotice,
		NoticeDays:   30,
		VacationDate: "2026-03-31",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 30, cmd.NoticeDays)
	require.NotNil(t, cmd.VacationDate)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *cmd.VacationDate)
}

func TestValidateVacateNoticeWindow(t *testing.T) {
	for _, days := range []int{0, -1, 91} {
		_, err := ValidateVacateRequest(&dto.VacateRequest{
			ResidentID:   1,
			VacationType: constants.VacationTypeNotice,
			NoticeDays:   days,
			VacationDate: "2026-03-31",
		}, now)
		assertCode(t, err, apperrors.ErrCodeInvalidNoticeWindow)
	}

	// the boundary values pass
	for _, days := range []int{1, 90} {
		_, err := ValidateVacateRequest(&dto.VacateRequest{
			ResidentID:   1,
			VacationType: constants.VacationTypeNotice,
			NoticeDays:   days,
			VacationDate: "2026-03-31",
		}, now)
		assert.NoError(t, err)
	}
}

func TestValidateVacateNoticeDateRules(t *testing.T) {
	// missing date
	_, err := ValidateVacateRequest(&dto.VacateRequest{
		ResidentID: 1, VacationType: constants.VacationTypeNotice, NoticeDays: 30,
	}, now)
	assertCode(t, err, apperrors.ErrCodeInvalidNoticeWindow)

	// same-day is not a future date
	_, err = ValidateVacateRequest(&dto.VacateRequest{
		ResidentID: 1, VacationType: constants.VacationTypeNotice, NoticeDays: 30, VacationDate: "2026-03-01",
	}, now)
	assertCode(t, err, apperrors.ErrCodeInvalidNoticeWindow)

	// past date
	_, err = ValidateVacateRequest(&dto.VacateRequest{
		ResidentID: 1, VacationType: constants.VacationTypeNotice, NoticeDays: 30, VacationDate: "2026-02-20",
	}, now)
	assertCode(t, err, apperrors.ErrCodeInvalidNoticeWindow)

	// bad format
	_, err = ValidateVacateRequest(&dto.VacateRequest{
		ResidentID: 1, VacationType: constants.VacationTypeNotice, NoticeDays: 30, VacationDate: "31/03/2026",
	}, now)
	assertCode(t, err, apperrors.ErrCodeInvalidFormat)

	// tomorrow passes
	_, err = ValidateVacateRequest(&dto.VacateRequest{
		ResidentID: 1, VacationType: constants.VacationTypeNotice, NoticeDays: 30, VacationDate: "2026-03-02",
	}, now)
	assert.NoError(t, err)
}

func TestValidateVacateUnknownType(t *testing.T) {
	_, err := ValidateVacateRequest(&dto.VacateRequest{ResidentID: 1, VacationType: "someday"}, now)
	assertCode(t, err, apperrors.ErrCodeValidation)
}

func TestValidateReserveRequest(t *testing.T) {
	cmd, err := ValidateReserveRequest(&dto.ReserveBedRequest{
		RoomID:                   1,
		BedNumber:                "2",
		NewResidentID:            9,
		ExpectedAvailabilityDate: "2026-03-31",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), cmd.ExpectedAvailabilityDate)

	// today is acceptable, yesterday is not
	_, err = ValidateReserveRequest(&dto.ReserveBedRequest{
		RoomID: 1, BedNumber: "2", NewResidentID: 9, ExpectedAvailabilityDate: "2026-03-01",
	}, now)
	assert.NoError(t, err)
	_, err = ValidateReserveRequest(&dto.ReserveBedRequest{
		RoomID: 1, BedNumber: "2", NewResidentID: 9, ExpectedAvailabilityDate: "2026-02-28",
	}, now)
	assertCode(t, err, apperrors.ErrCodeValidation)

	_, err = ValidateReserveRequest(&dto.ReserveBedRequest{
		RoomID: 1, BedNumber: "x", NewResidentID: 9, ExpectedAvailabilityDate: "2026-03-31",
	}, now)
	assertCode(t, err, apperrors.ErrCodeInvalidBedNumber)
}
