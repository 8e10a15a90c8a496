package mappers

import (
	"ticketd/internal/domain/event"
	"ticketd/internal/infrastructure/persistence/models"
)

type EventMapper interface {
	ToModel(e *event.Event) *models.EventModel
	ToDomain(model *models.EventModel) (*event.Event, error)
}

type EventMapperImpl struct{}

func NewEventMapper() EventMapper {
	return &EventMapperImpl{}
}

func (m *EventMapperImpl) ToModel(e *event.Event) *models.EventModel {
	return &models.EventModel{
		ID:       e.ID(),
		Title:    e.Title(),
		StartsAt: e.Start().UnixMilli(),
		EndsAt:   e.End().UnixMilli(),
	}
}

func (m *EventMapperImpl) ToDomain(model *models.EventModel) (*event.Event, error) {
	return event.ReconstructEvent(model.ID, model.Title, millisToTime(model.StartsAt), millisToTime(model.EndsAt))
}
