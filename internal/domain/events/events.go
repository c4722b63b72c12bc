package events

type Type string

const (
	TypeNoteCreated Type = "NOTE_CREATED"
	TypeNoteViewed  Type = "NOTE_VIEWED"
	TypeNoteUpdated Type = "NOTE_UPDATED"
	TypeNoteDeleted Type = "NOTE_DELETED"

	// Platform events the notebook observes for scope maintenance.
	TypeCourseUpdated Type = "COURSE_UPDATED"
	TypeCourseDeleted Type = "COURSE_DELETED"
	TypeModuleUpdated Type = "COURSE_MODULE_UPDATED"
	TypeModuleDeleted Type = "COURSE_MODULE_DELETED"

	// UI events shared between mutually exclusive slide-out panels.
	TypePanelOpened Type = "PANEL_OPENED"
)

// Event is anything published on the Bus.
type Event interface {
	GetType() Type
}
