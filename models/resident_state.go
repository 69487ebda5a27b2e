package models

import "errors"

// ResidentState defines the transitions allowed from one resident status
type ResidentState interface {
	Activate(r *Resident) error
	StartNotice(r *Resident) error
	Deactivate(r *Resident) error
	MoveOut(r *Resident) error
}

// PendingState resident created, no bed yet
type PendingState struct{}

func (s *PendingState) Activate(r *Resident) error {
	r.Status = ResidentStatusActive
	return nil
}

func (s *PendingState) StartNotice(r *Resident) error {
	return errors.New("pending resident has no bed to give notice on")
}

func (s *PendingState) Deactivate(r *Resident) error {
	return errors.New("pending resident has no bed to vacate")
}

func (s *PendingState) MoveOut(r *Resident) error {
	return errors.New("pending resident cannot move out")
}

// ActiveState resident occupies a bed
type ActiveState struct{}

func (s *ActiveState) Activate(r *Resident) error {
	return errors.New("resident already active")
}

func (s *ActiveState) StartNotice(r *Resident) error {
	r.Status = ResidentStatusNoticePeriod
	return nil
}

func (s *ActiveState) Deactivate(r *Resident) error {
	r.Status = ResidentStatusInactive
	return nil
}

func (s *ActiveState) MoveOut(r *Resident) error {
	return errors.New("active resident must serve notice before moving out")
}

// NoticePeriodState resident announced departure, still occupies the bed
type NoticePeriodState struct{}

func (s *NoticePeriodState) Activate(r *Resident) error {
	return errors.New("resident is serving notice")
}

func (s *NoticePeriodState) StartNotice(r *Resident) error {
	return errors.New("resident already in notice period")
}

func (s *NoticePeriodState) Deactivate(r *Resident) error {
	r.Status = ResidentStatusInactive
	return nil
}

func (s *NoticePeriodState) MoveOut(r *Resident) error {
	r.Status = ResidentStatusMovedOut
	return nil
}

// InactiveState terminal state after an immediate or scheduled vacate
type InactiveState struct{}

func (s *InactiveState) Activate(r *Resident) error {
	return errors.New("cannot activate inactive resident")
}

func (s *InactiveState) StartNotice(r *Resident) error {
	return errors.New("inactive resident holds no bed")
}

func (s *InactiveState) Deactivate(r *Resident) error {
	return errors.New("resident already inactive")
}

func (s *InactiveState) MoveOut(r *Resident) error {
	return errors.New("inactive resident cannot move out")
}

// MovedOutState terminal state after a reservation handover
type MovedOutState struct{}

func (s *MovedOutState) Activate(r *Resident) error {
	return errors.New("cannot activate moved out resident")
}

func (s *MovedOutState) StartNotice(r *Resident) error {
	return errors.New("moved out resident holds no bed")
}

func (s *MovedOutState) Deactivate(r *Resident) error {
	return errors.New("moved out resident cannot be deactivated")
}

func (s *MovedOutState) MoveOut(r *Resident) error {
	return errors.New("resident already moved out")
}

// GetResidentState returns the state for the resident's current status
func GetResidentState(status string) ResidentState {
	switch status {
	case ResidentStatusPending:
		return &PendingState{}
	case ResidentStatusActive:
		return &ActiveState{}
	case ResidentStatusNoticePeriod:
		return &NoticePeriodState{}
	case ResidentStatusInactive:
		return &InactiveState{}
	case ResidentStatusMovedOut:
		return &MovedOutState{}
	default:
		return &PendingState{}
	}
}
