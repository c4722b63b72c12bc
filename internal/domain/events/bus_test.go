package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusRoutesByType(t *testing.T) {
	bus := NewBus()

	var created, deleted []Event
	bus.Subscribe(TypeNoteCreated, func(evt Event) { created = append(created, evt) })
	bus.Subscribe(TypeNoteDeleted, func(evt Event) { deleted = append(deleted, evt) })

	bus.Publish(&NoteCreated{NoteID: 1})
	bus.Publish(&NoteCreated{NoteID: 2})
	bus.Publish(&NoteViewed{NoteID: 3})

	assert.Len(t, created, 2)
	assert.Empty(t, deleted)
}

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(TypeNoteCreated, func(Event) { order = append(order, "first") })
	bus.Subscribe(TypeNoteCreated, func(Event) { order = append(order, "second") })
	bus.SubscribeAll(func(Event) { order = append(order, "catchall") })

	bus.Publish(&NoteCreated{NoteID: 1})

	assert.Equal(t, []string{"first", "second", "catchall"}, order)
}

func TestBusIgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(&ModuleDeleted{ModuleID: 1})
	})
}
