package validator

import (
	"regexp"
	"time"

	"hms/constants"
	"hms/dto"
	"hms/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var bedNumberRegex = regexp.MustCompile(`^[0-9]+$`)

// RegisterCustomValidators installs the binding rules used by the DTO tags.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bednumber", func(fl validator.FieldLevel) bool {
			return bedNumberRegex.MatchString(fl.Field().String())
		})
	}
}

// ValidateAssignRequest checks an onboarding request and parses its dates.
func ValidateAssignRequest(req *dto.AssignToRoomRequest) (*dto.AssignCommand, error) {
	if !bedNumberRegex.MatchString(req.BedNumber) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidBedNumber, "Bed number must be numeric", nil)
	}
	if req.AdvanceAmount < 0 || req.RentAmount < 0 {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Amounts must not be negative", nil)
	}

	cmd := &dto.AssignCommand{
		ResidentID:    req.ResidentID,
		RoomID:        req.RoomID,
		BedNumber:     req.BedNumber,
		AdvanceAmount: req.AdvanceAmount,
		RentAmount:    req.RentAmount,
	}

	var err error
	if cmd.CheckInDate, err = parseOptionalDate(req.CheckInDate, "check-in date"); err != nil {
		return nil, err
	}
	if cmd.ContractStartDate, err = parseOptionalDate(req.ContractStartDate, "contract start date"); err != nil {
		return nil, err
	}
	if cmd.ContractEndDate, err = parseOptionalDate(req.ContractEndDate, "contract end date"); err != nil {
		return nil, err
	}
	if cmd.ContractStartDate != nil && cmd.ContractEndDate != nil &&
		cmd.ContractEndDate.Before(*cmd.ContractStartDate) {
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Contract end date must be after the start date", nil)
	}
	return cmd, nil
}

// ValidateVacateRequest checks a vacate request against the notice window
// rules: notice vacations need 1..90 notice days and a future vacation date.
func ValidateVacateRequest(req *dto.VacateRequest, now time.Time) (*dto.VacateCommand, error) {
	cmd := &dto.VacateCommand{
		ResidentID:   req.ResidentID,
		VacationType: req.VacationType,
	}

	switch req.VacationType {
	case constants.VacationTypeImmediate:
		return cmd, nil
	case constants.VacationTypeNotice:
	default:
		return nil, errors.NewAppError(errors.ErrCodeValidation, "Vacation type must be immediate or notice", nil)
	}

	if req.NoticeDays < constants.MinNoticeDays || req.NoticeDays > constants.MaxNoticeDays {
		return nil, errors.NewAppError(errors.ErrCodeInvalidNoticeWindow,
			"Notice days must be between 1 and 90", errors.ErrInvalidNoticeWindow)
	}
	if req.VacationDate == "" {
		return nil, errors.NewAppError(errors.ErrCodeInvalidNoticeWindow,
			"Vacation date is required for notice vacations", errors.ErrInvalidNoticeWindow)
	}
	vacationDate, err := time.Parse(dateLayout, req.VacationDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat,
			"Vacation date must use the format yyyy-mm-dd", err)
	}
	if !vacationDate.After(truncateToDay(now)) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidNoticeWindow,
			"Vacation date must be in the future", errors.ErrInvalidNoticeWindow)
	}

	cmd.NoticeDays = req.NoticeDays
	cmd.VacationDate = &vacationDate
	return cmd, nil
}

// ValidateReserveRequest checks a successor reservation request.
func ValidateReserveRequest(req *dto.ReserveBedRequest, now time.Time) (*dto.ReserveCommand, error) {
	if !bedNumberRegex.MatchString(req.BedNumber) {
		return nil, errors.NewAppError(errors.ErrCodeInvalidBedNumber, "Bed number must be numeric", nil)
	}
	expected, err := time.Parse(dateLayout, req.ExpectedAvailabilityDate)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat,
			"Expected availability date must use the format yyyy-mm-dd", err)
	}
	if expected.Before(truncateToDay(now)) {
		return nil, errors.NewAppError(errors.ErrCodeValidation,
			"Expected availability date must not be in the past", nil)
	}
	return &dto.ReserveCommand{
		RoomID:                   req.RoomID,
		BedNumber:                req.BedNumber,
		NewResidentID:            req.NewResidentID,
		ExpectedAvailabilityDate: expected,
	}, nil
}

func parseOptionalDate(value, field string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat,
			"Invalid "+field+", expected yyyy-mm-dd", err)
	}
	return &parsed, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
