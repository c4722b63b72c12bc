package contract

// NoteTag is a clickable scope chip shown under a note: course, activity or
// profile. A tag for a deleted scope keeps the cached title with a '#' URL.
type NoteTag struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Tooltip string `json:"tooltip"`
}

type NoteResponse struct {
	ID            int64      `json:"id"`
	Subject       string     `json:"subject"`
	Summary       string     `json:"summary"`
	ContextName   string     `json:"context_name"`
	Tags          []*NoteTag `json:"tags"`
	RelatedUserID int64      `json:"related_user_id,omitempty"`
	CourseID      int64      `json:"course_id,omitempty"`
	ModuleID      int64      `json:"module_id,omitempty"`
	ItemID        int64      `json:"item_id,omitempty"`
	CreatedAt     string     `json:"created_at"`
	LastModified  string     `json:"last_modified"`
}

type CreateNoteRequest struct {
	Subject  string `json:"subject" validate:"required,notblank,max=255"`
	Summary  string `json:"note" validate:"required,notblank"`
	UserID   int64  `json:"userid" validate:"omitempty,gt=0"`
	CourseID int64  `json:"courseid" validate:"omitempty,gt=0"`
	ModuleID int64  `json:"coursemoduleid" validate:"omitempty,gt=0"`
	ItemID   int64  `json:"itemid"`
}

// UpdateNoteRequest replaces subject and body wholesale. Scope fields are
// immutable after creation and deliberately absent here.
type UpdateNoteRequest struct {
	Subject string `json:"subject" validate:"required,notblank,max=255"`
	Summary string `json:"note" validate:"required,notblank"`
	ItemID  int64  `json:"itemid"`
}

type DeleteNotesRequest struct {
	NoteIDs []int64 `json:"notes" validate:"required,min=1,nodupes,dive,gt=0"`
}
