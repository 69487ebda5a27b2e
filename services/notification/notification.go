package notification

import (
	"fmt"

	"github.com/olahol/melody"
)

// Occupancy events broadcast on successful transitions
const (
	EventOnboarded          = "onboarded"
	EventVacated            = "vacated"
	EventNoticeStarted      = "notice_started"
	EventSwitched           = "switched"
	EventReservationMatured = "reservation_matured"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

type MessageBuilder struct {
	event      string
	residentID uint
	roomNumber string
	bedNumber  string
}

func NewMessageBuilder(event string, residentID uint, roomNumber, bedNumber string) *MessageBuilder {
	return &MessageBuilder{
		event:      event,
		residentID: residentID,
		roomNumber: roomNumber,
		bedNumber:  bedNumber,
	}
}

func (b *MessageBuilder) Build() string {
	if b.roomNumber == "" {
		return fmt.Sprintf("🔔 [%s] resident %d", b.event, b.residentID)
	}
	return fmt.Sprintf("🔔 [%s] resident %d, room %s bed %s", b.event, b.residentID, b.roomNumber, b.bedNumber)
}
