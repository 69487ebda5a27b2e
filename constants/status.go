package constants

// Sharing types: number of beds per room
const (
	SharingTypeSingle = 1
	SharingTypeDouble = 2
	SharingTypeTriple = 3
	SharingTypeFour   = 4
)

// Vacation types
const (
	VacationTypeImmediate = "immediate"
	VacationTypeNotice    = "notice"
)

// Notice window bounds (days)
const (
	MinNoticeDays = 1
	MaxNoticeDays = 90
)

// Bed occupant states for the availability view
const (
	BedStateAvailable      = "available"
	BedStateActiveOccupant = "active-occupant"
	BedStateNoticeOccupant = "notice-period-occupant"
)

// User roles
const (
	RoleSuperAdmin = 1
	RoleManager    = 2
	RoleWarden     = 3
)

const DefaultTimezone = "Asia/Kolkata"
