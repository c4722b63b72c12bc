package service

import (
	"notebook/internal/domain/events"

	"github.com/labstack/gommon/log"
)

// ScopeMaintenance keeps note scope fields in sync with the platform catalog.
// Renames rewrite the cached name; deletions reset the scope id to 0 while
// the cached name is retained, turning the notes into readable orphans.
//
// The handlers are fire-and-forget: the event system does not expect
// observers to fail loudly, so storage errors are logged and swallowed.
type ScopeMaintenance struct {
	NoteRepo NoteRepository
}

func NewScopeMaintenance(noteRepo NoteRepository) *ScopeMaintenance {
	return &ScopeMaintenance{NoteRepo: noteRepo}
}

func (m *ScopeMaintenance) Register(bus *events.Bus) {
	bus.Subscribe(events.TypeCourseUpdated, m.onCourseUpdated)
	bus.Subscribe(events.TypeCourseDeleted, m.onCourseDeleted)
	bus.Subscribe(events.TypeModuleUpdated, m.onModuleUpdated)
	bus.Subscribe(events.TypeModuleDeleted, m.onModuleDeleted)
}

func (m *ScopeMaintenance) onCourseUpdated(evt events.Event) {
	e, ok := evt.(*events.CourseUpdated)
	if !ok {
		return
	}

	if err := m.NoteRepo.SetCourseName(e.CourseID, e.ShortName); err != nil {
		log.Errorf("failed to propagate course rename %d: %v", e.CourseID, err)
	}
}

func (m *ScopeMaintenance) onCourseDeleted(evt events.Event) {
	e, ok := evt.(*events.CourseDeleted)
	if !ok {
		return
	}

	if err := m.NoteRepo.ClearCourse(e.CourseID); err != nil {
		log.Errorf("failed to orphan notes of course %d: %v", e.CourseID, err)
	}
}

func (m *ScopeMaintenance) onModuleUpdated(evt events.Event) {
	e, ok := evt.(*events.ModuleUpdated)
	if !ok {
		return
	}

	if err := m.NoteRepo.SetModuleName(e.ModuleID, e.Name); err != nil {
		log.Errorf("failed to propagate module rename %d: %v", e.ModuleID, err)
	}
}

func (m *ScopeMaintenance) onModuleDeleted(evt events.Event) {
	e, ok := evt.(*events.ModuleDeleted)
	if !ok {
		return
	}

	if err := m.NoteRepo.ClearModule(e.ModuleID); err != nil {
		log.Errorf("failed to orphan notes of module %d: %v", e.ModuleID, err)
	}
}
