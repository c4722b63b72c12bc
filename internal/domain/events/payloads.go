package events

// NoteCreated is emitted after a note is persisted. The course id is left out
// of the payload on purpose: whether a user keeps notes in a course must not
// leak through the event channel, only the related user and module do.
type NoteCreated struct {
	NoteID        int64 `json:"id"`
	AuthorID      int64 `json:"author_id"`
	RelatedUserID int64 `json:"related_user_id,omitempty"`
	ModuleID      int64 `json:"module_id,omitempty"`
}

func (e *NoteCreated) GetType() Type {
	return TypeNoteCreated
}

// NoteViewed is a read-only audit signal.
type NoteViewed struct {
	NoteID   int64 `json:"id"`
	AuthorID int64 `json:"author_id"`
}

func (e *NoteViewed) GetType() Type {
	return TypeNoteViewed
}

// NoteUpdated carries the same restricted payload as NoteCreated.
type NoteUpdated struct {
	NoteID        int64 `json:"id"`
	AuthorID      int64 `json:"author_id"`
	RelatedUserID int64 `json:"related_user_id,omitempty"`
	ModuleID      int64 `json:"module_id,omitempty"`
}

func (e *NoteUpdated) GetType() Type {
	return TypeNoteUpdated
}

// NoteDeleted holds only the note ID and its author.
type NoteDeleted struct {
	NoteID   int64 `json:"id"`
	AuthorID int64 `json:"author_id"`
}

func (e *NoteDeleted) GetType() Type {
	return TypeNoteDeleted
}

// CourseUpdated is delivered by the platform when a course is renamed.
type CourseUpdated struct {
	CourseID  int64  `json:"course_id"`
	ShortName string `json:"shortname"`
}

func (e *CourseUpdated) GetType() Type {
	return TypeCourseUpdated
}

type CourseDeleted struct {
	CourseID int64 `json:"course_id"`
}

func (e *CourseDeleted) GetType() Type {
	return TypeCourseDeleted
}

type ModuleUpdated struct {
	ModuleID int64  `json:"module_id"`
	Name     string `json:"name"`
}

func (e *ModuleUpdated) GetType() Type {
	return TypeModuleUpdated
}

type ModuleDeleted struct {
	ModuleID int64 `json:"module_id"`
}

func (e *ModuleDeleted) GetType() Type {
	return TypeModuleDeleted
}

// PanelOpened announces that a slide-out panel became visible, so competing
// panels can close themselves.
type PanelOpened struct {
	Panel string `json:"panel"`
}

func (e *PanelOpened) GetType() Type {
	return TypePanelOpened
}
