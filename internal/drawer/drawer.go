// Package drawer models the slide-out notebook panel as a single
// parametrized finite-state controller: list, view, add and edit modes, the
// confirm-delete overlay, checkbox selection with its action bar, and the
// save gating recomputed on every form change. All note operations go
// through the lifecycle API; after any mutation the list is torn down and
// rebuilt from a fresh ranked query rather than patched in place.
package drawer

import (
	"sort"
	"strings"

	"notebook/internal/contract"
	"notebook/internal/domain/entity"
	"notebook/internal/domain/events"
	"notebook/internal/domain/policy"
	"notebook/internal/domain/scope"
	"notebook/internal/utils/apierror"

	"github.com/k3a/html2text"
)

// NoteClient is the slice of the note lifecycle API the drawer consumes.
type NoteClient interface {
	ListNotes(actor *entity.User, s scope.Scope) ([]*contract.NoteResponse, apierror.ErrorResponse)
	ReadNote(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	UpdateNote(actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	DeleteNotes(actor *entity.User, req *contract.DeleteNotesRequest) apierror.ErrorResponse
	FormSubject(actor *entity.User, s scope.Scope) (string, apierror.ErrorResponse)
}

// Confirm is the delete-confirmation overlay mode.
type Confirm int

const (
	ConfirmNone Confirm = iota
	ConfirmSingle
	ConfirmBulk
)

// Focus names the control that should regain keyboard focus after the
// confirm dialogue closes.
type Focus string

const (
	FocusNone             Focus = ""
	FocusDeleteButton     Focus = "deletenote"
	FocusBulkDeleteButton Focus = "delete-selected-notes"
)

// Config parametrizes one drawer instance. Panel is the name published on
// the bus when this drawer opens, so competing panels can close themselves.
type Config struct {
	Panel      string
	PageLayout string
}

type form struct {
	noteID      int64
	subject     string
	body        string
	origSubject string
	origBody    string
}

type confirmState struct {
	mode   Confirm
	ids    []int64
	origin State
}

type Drawer struct {
	api    NoteClient
	policy *policy.NotebookPolicy
	bus    *events.Bus
	actor  *entity.User
	scope  scope.Scope
	cfg    Config

	visible  bool
	state    State
	notes    []*contract.NoteResponse
	current  *contract.NoteResponse
	form     form
	selected map[int64]bool
	confirm  confirmState
	focus    Focus
	notice   string
}

func New(api NoteClient, pol *policy.NotebookPolicy, bus *events.Bus, actor *entity.User, s scope.Scope, cfg Config) *Drawer {
	d := &Drawer{
		api:      api,
		policy:   pol,
		bus:      bus,
		actor:    actor,
		scope:    s.Normalize(),
		cfg:      cfg,
		state:    StateList,
		selected: make(map[int64]bool),
	}

	// Two slide-out panels are never visible at once: when another panel
	// announces itself, this drawer folds.
	bus.Subscribe(events.TypePanelOpened, func(evt events.Event) {
		e, ok := evt.(*events.PanelOpened)
		if !ok || e.Panel == d.cfg.Panel {
			return
		}
		if d.visible {
			d.hide()
		}
	})
	return d
}

// Open makes the drawer visible in LIST mode and loads the ranked list.
func (d *Drawer) Open() apierror.ErrorResponse {
	if apierr := d.policy.CanUseNotebook(d.actor, d.cfg.PageLayout); apierr != nil {
		return apierr
	}

	if apierr := d.refresh(); apierr != nil {
		return apierr
	}

	d.visible = true
	d.state = StateList
	d.bus.Publish(&events.PanelOpened{Panel: d.cfg.Panel})
	return nil
}

func (d *Drawer) Close() {
	d.hide()
}

func (d *Drawer) Toggle() apierror.ErrorResponse {
	if d.visible {
		d.hide()
		return nil
	}
	return d.Open()
}

func (d *Drawer) hide() {
	d.visible = false
	d.confirm = confirmState{}
	d.notice = ""
}

// SelectNote moves LIST -> VIEW, fetching the full body (the read also logs
// the viewed event server-side).
func (d *Drawer) SelectNote(noteID int64) apierror.ErrorResponse {
	to, ok := next(d.state, EventSelect)
	if !ok {
		return nil
	}

	note, apierr := d.api.ReadNote(d.actor, noteID)
	if apierr != nil {
		return apierr
	}

	d.ClearSelection()
	d.current = note
	d.state = to
	return nil
}

// Back returns VIEW -> LIST.
func (d *Drawer) Back() {
	if to, ok := next(d.state, EventBack); ok {
		d.current = nil
		d.state = to
	}
}

// BeginAdd moves LIST -> ADD with a freshly computed default subject and an
// empty body.
func (d *Drawer) BeginAdd() apierror.ErrorResponse {
	to, ok := next(d.state, EventAdd)
	if !ok {
		return nil
	}

	subject, apierr := d.api.FormSubject(d.actor, d.scope)
	if apierr != nil {
		return apierr
	}

	d.form = form{subject: subject}
	d.notice = ""
	d.state = to
	return nil
}

// BeginEdit moves VIEW -> EDIT, pre-filling the form with the current
// subject and body. The originals are kept for the no-op guard.
func (d *Drawer) BeginEdit() apierror.ErrorResponse {
	to, ok := next(d.state, EventEdit)
	if !ok || d.current == nil {
		return nil
	}

	note, apierr := d.api.ReadNote(d.actor, d.current.ID)
	if apierr != nil {
		return apierr
	}

	d.current = note
	d.form = form{
		noteID:      note.ID,
		subject:     note.Subject,
		body:        note.Summary,
		origSubject: note.Subject,
		origBody:    note.Summary,
	}
	d.notice = ""
	d.state = to
	return nil
}

func (d *Drawer) SetSubject(subject string) {
	if d.state == StateAdd || d.state == StateEdit {
		d.form.subject = subject
	}
}

func (d *Drawer) SetBody(body string) {
	if d.state == StateAdd || d.state == StateEdit {
		d.form.body = body
	}
}

// CanSave is the save-control gate, recomputed on every form change. It is
// false when the subject is blank, when the body stripped of markup is blank
// and embeds no image, or in edit mode when nothing changed at all (the
// no-op guard that prevents spurious update calls and events).
func (d *Drawer) CanSave() bool {
	if strings.TrimSpace(d.form.subject) == "" {
		return false
	}

	stripped := strings.TrimSpace(html2text.HTML2Text(d.form.body))
	if stripped == "" && !strings.Contains(d.form.body, "<img") {
		return false
	}

	if d.state == StateEdit &&
		d.form.subject == d.form.origSubject &&
		d.form.body == d.form.origBody {
		return false
	}
	return true
}

// Submit saves the form. ADD creates and re-views the created note, EDIT
// updates and re-views; an invalid form is a no-op and the state stays put.
// The list is rebuilt from a fresh ranked query after the mutation.
func (d *Drawer) Submit() apierror.ErrorResponse {
	to, ok := next(d.state, EventSubmit)
	if !ok || !d.CanSave() {
		return nil
	}

	var note *contract.NoteResponse
	var apierr apierror.ErrorResponse

	switch d.state {
	case StateAdd:
		note, apierr = d.api.CreateNote(d.actor, &contract.CreateNoteRequest{
			Subject:  d.form.subject,
			Summary:  d.form.body,
			UserID:   d.scope.UserID,
			CourseID: d.scope.CourseID,
			ModuleID: d.scope.ModuleID,
		})
	case StateEdit:
		note, apierr = d.api.UpdateNote(d.actor, d.form.noteID, &contract.UpdateNoteRequest{
			Subject: d.form.subject,
			Summary: d.form.body,
		})
	}

	if apierr != nil {
		return apierr
	}

	if apierr := d.refresh(); apierr != nil {
		return apierr
	}

	d.current = note
	d.form = form{}
	d.notice = "Your note has been saved."
	d.state = to
	return nil
}

// Cancel leaves the form: back to VIEW when editing, back to LIST when
// adding.
func (d *Drawer) Cancel() {
	to, ok := next(d.state, EventCancel)
	if !ok {
		return
	}

	d.form = form{}
	if to == StateList {
		d.current = nil
	}
	d.state = to
}

// ToggleSelect flips a checkbox in the list. The selection action bar and
// the pagination footer are mutually exclusive footer regions.
func (d *Drawer) ToggleSelect(noteID int64) {
	if d.state != StateList {
		return
	}

	if d.selected[noteID] {
		delete(d.selected, noteID)
	} else {
		d.selected[noteID] = true
		d.notice = ""
	}
}

func (d *Drawer) SelectAll() {
	if d.state != StateList {
		return
	}
	for _, note := range d.notes {
		d.selected[note.ID] = true
	}
	if len(d.selected) > 0 {
		d.notice = ""
	}
}

func (d *Drawer) ClearSelection() {
	d.selected = make(map[int64]bool)
}

func (d *Drawer) SelectedCount() int {
	return len(d.selected)
}

func (d *Drawer) ActionBarVisible() bool {
	return d.state == StateList && len(d.selected) > 0
}

func (d *Drawer) PaginationVisible() bool {
	return !d.ActionBarVisible()
}

// RequestDelete opens the single-note confirm dialogue from VIEW.
func (d *Drawer) RequestDelete() {
	if d.state != StateView || d.current == nil {
		return
	}
	d.confirm = confirmState{
		mode:   ConfirmSingle,
		ids:    []int64{d.current.ID},
		origin: d.state,
	}
}

// RequestBulkDelete opens the multi-note confirm dialogue from LIST for the
// current selection.
func (d *Drawer) RequestBulkDelete() {
	if d.state != StateList || len(d.selected) == 0 {
		return
	}

	ids := make([]int64, 0, len(d.selected))
	for id := range d.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	d.confirm = confirmState{
		mode:   ConfirmBulk,
		ids:    ids,
		origin: d.state,
	}
}

// ConfirmDelete performs the pending deletion and lands on a rebuilt LIST.
// On failure the dialogue closes and the drawer stays in its prior state.
func (d *Drawer) ConfirmDelete() apierror.ErrorResponse {
	if d.confirm.mode == ConfirmNone {
		return nil
	}

	mode := d.confirm.mode
	ids := d.confirm.ids
	d.confirm = confirmState{}

	if apierr := d.api.DeleteNotes(d.actor, &contract.DeleteNotesRequest{NoteIDs: ids}); apierr != nil {
		return apierr
	}

	if apierr := d.refresh(); apierr != nil {
		return apierr
	}

	if mode == ConfirmBulk {
		d.notice = "The selected notes have been deleted."
	} else {
		d.notice = "Your note has been deleted."
	}
	d.ClearSelection()
	d.current = nil
	if to, ok := next(d.state, EventDeleted); ok {
		d.state = to
	}
	return nil
}

// CancelDelete dismisses the dialogue, restoring focus to the control that
// opened it and leaving the previous state untouched.
func (d *Drawer) CancelDelete() {
	switch d.confirm.mode {
	case ConfirmSingle:
		d.focus = FocusDeleteButton
	case ConfirmBulk:
		d.focus = FocusBulkDeleteButton
	default:
		return
	}
	d.confirm = confirmState{}
}

// Refresh rebuilds the list from a fresh ranked query.
func (d *Drawer) Refresh() apierror.ErrorResponse {
	return d.refresh()
}

func (d *Drawer) refresh() apierror.ErrorResponse {
	notes, apierr := d.api.ListNotes(d.actor, d.scope)
	if apierr != nil {
		return apierr
	}
	d.notes = notes
	return nil
}

func (d *Drawer) Visible() bool                      { return d.visible }
func (d *Drawer) State() State                       { return d.state }
func (d *Drawer) ConfirmMode() Confirm               { return d.confirm.mode }
func (d *Drawer) PendingDeletion() []int64           { return d.confirm.ids }
func (d *Drawer) Notes() []*contract.NoteResponse    { return d.notes }
func (d *Drawer) Current() *contract.NoteResponse    { return d.current }
func (d *Drawer) Subject() string                    { return d.form.subject }
func (d *Drawer) Body() string                       { return d.form.body }
func (d *Drawer) LastFocus() Focus                   { return d.focus }
func (d *Drawer) Notice() string                     { return d.notice }
