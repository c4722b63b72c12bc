package service

import (
	"fmt"

	"notebook/internal/contract"
	"notebook/internal/domain/entity"
	"notebook/internal/domain/events"
	"notebook/internal/domain/scope"
	"notebook/internal/utils"
	"notebook/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindByID(id int64) (*entity.Note, error)
	Save(note *entity.Note) error
	Delete(note *entity.Note) error
	DeleteBatch(notes []*entity.Note) error
	CountByScope(authorID int64, s scope.Scope) (int64, error)
	ListRanked(authorID int64, s scope.Scope) ([]*entity.Note, error)
	SetCourseName(courseID int64, name string) error
	ClearCourse(courseID int64) error
	SetModuleName(moduleID int64, name string) error
	ClearModule(moduleID int64) error
}

type CourseRepository interface {
	FindByID(id int64) (*entity.Course, error)
	FindModuleByID(id int64) (*entity.CourseModule, error)
	IsEnrolled(courseID, userID int64) (bool, error)
}

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindActiveBySub(sub string) (*entity.User, error)
}

type DefaultNoteService struct {
	NoteRepo   NoteRepository
	CourseRepo CourseRepository
	UserRepo   UserRepository
	Bus        *events.Bus
	Validate   *validator.Validate
}

func NewNoteService(
	noteRepo NoteRepository,
	courseRepo CourseRepository,
	userRepo UserRepository,
	bus *events.Bus,
	validate *validator.Validate,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:   noteRepo,
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
		Bus:        bus,
		Validate:   validate,
	}
}

// CreateNote validates the requested scope against the platform catalog,
// persists the note and emits NoteCreated. A related user clears any module
// id before validation: user notes never carry a module.
func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note := &entity.Note{
		AuthorID: actor.ID,
		Subject:  req.Subject,
		Summary:  req.Summary,
		ItemID:   req.ItemID,
	}

	if req.CourseID != 0 {
		course, err := n.CourseRepo.FindByID(req.CourseID)
		if err != nil {
			log.Errorf("failed to fetch course: %v", err)
			return nil, apierror.InternalServerError
		}
		if course == nil {
			return nil, apierror.CourseNotFoundError
		}
		if !course.Visible {
			return nil, apierror.CourseNotVisibleError
		}
		note.CourseID = course.ID
		note.CourseName = course.ShortName
	}

	moduleID := req.ModuleID
	if req.UserID != 0 {
		related, err := n.UserRepo.FindByID(req.UserID)
		if err != nil {
			log.Errorf("failed to fetch related user: %v", err)
			return nil, apierror.InternalServerError
		}
		if related == nil {
			return nil, apierror.RelatedUserNotFoundError
		}

		if req.CourseID != 0 {
			enrolled, err := n.CourseRepo.IsEnrolled(req.CourseID, req.UserID)
			if err != nil {
				log.Errorf("failed to check enrolment: %v", err)
				return nil, apierror.InternalServerError
			}
			if !enrolled {
				return nil, apierror.NotEnrolledError
			}
		}

		// Ignore the course module.
		moduleID = 0
		note.UserID = related.ID
	}

	if moduleID != 0 {
		cm, err := n.CourseRepo.FindModuleByID(moduleID)
		if err != nil {
			log.Errorf("failed to fetch course module: %v", err)
			return nil, apierror.InternalServerError
		}
		if cm == nil {
			return nil, apierror.ModuleNotFoundError
		}
		if !cm.Visible {
			return nil, apierror.ModuleNotVisibleError
		}
		if cm.CourseID != req.CourseID {
			return nil, apierror.ScopeMismatchError
		}
		note.ModuleID = cm.ID
		note.ModuleName = cm.Name
	}

	now := utils.NowUTC()
	note.CreatedAt = now
	note.LastModified = now

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}

	n.Bus.Publish(&events.NoteCreated{
		NoteID:        note.ID,
		AuthorID:      note.AuthorID,
		RelatedUserID: note.UserID,
		ModuleID:      note.ModuleID,
	})
	return n.toNoteResponse(note), nil
}

// ReadNote returns the full note body to its author and logs the view.
func (n *DefaultNoteService) ReadNote(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	n.Bus.Publish(&events.NoteViewed{NoteID: note.ID, AuthorID: actor.ID})
	return n.toNoteResponse(note), nil
}

// NoteViewed logs the read-only audit event without returning the body.
func (n *DefaultNoteService) NoteViewed(actor *entity.User, noteID int64) apierror.ErrorResponse {
	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return apierr
	}

	n.Bus.Publish(&events.NoteViewed{NoteID: note.ID, AuthorID: actor.ID})
	return nil
}

// UpdateNote replaces subject and body wholesale. Scope fields are immutable
// through this call.
func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	note.Subject = req.Subject
	note.Summary = req.Summary
	note.ItemID = req.ItemID
	note.LastModified = utils.NowUTC()

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to update note: %v", err)
		return nil, apierror.InternalServerError
	}

	n.Bus.Publish(&events.NoteUpdated{
		NoteID:        note.ID,
		AuthorID:      note.AuthorID,
		RelatedUserID: note.UserID,
		ModuleID:      note.ModuleID,
	})
	return n.toNoteResponse(note), nil
}

// DeleteNote removes a single note owned by the actor.
func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteID int64) apierror.ErrorResponse {
	return n.DeleteNotes(actor, &contract.DeleteNotesRequest{NoteIDs: []int64{noteID}})
}

// DeleteNotes removes a batch of notes, all-or-nothing. The batch must hold
// at least one id and no duplicates (a repeated id would emit two deleted
// events for one removal). Every id is checked for existence and ownership
// before anything is deleted; the first offending id aborts the whole call
// and no note is removed.
func (n *DefaultNoteService) DeleteNotes(actor *entity.User, req *contract.DeleteNotesRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	notes := make([]*entity.Note, 0, len(req.NoteIDs))
	for _, id := range req.NoteIDs {
		note, apierr := n.fetchOwned(actor, id)
		if apierr != nil {
			return apierr
		}
		notes = append(notes, note)
	}

	if err := n.NoteRepo.DeleteBatch(notes); err != nil {
		log.Errorf("failed to delete notes: %v", err)
		return apierror.InternalServerError
	}

	for _, note := range notes {
		n.Bus.Publish(&events.NoteDeleted{NoteID: note.ID, AuthorID: actor.ID})
	}
	return nil
}

// ListNotes runs the tiered fallback query for the given scope. A module id
// that does not resolve is the caller's error, not an empty result.
func (n *DefaultNoteService) ListNotes(actor *entity.User, s scope.Scope) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	s = s.Normalize()
	if s.ModuleID != 0 {
		cm, err := n.CourseRepo.FindModuleByID(s.ModuleID)
		if err != nil {
			log.Errorf("failed to fetch course module: %v", err)
			return nil, apierror.InternalServerError
		}
		if cm == nil {
			return nil, apierror.ModuleNotFoundError
		}
		// The module branch falls back through the owning course.
		s.CourseID = cm.CourseID
	}

	notes, err := n.NoteRepo.ListRanked(actor.ID, s)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = n.toNoteResponse(note)
	}
	return resp, nil
}

// FormSubject proposes the default subject line for a new note in the given
// scope, numbered after the author's existing notes in the same bucket.
func (n *DefaultNoteService) FormSubject(actor *entity.User, s scope.Scope) (string, apierror.ErrorResponse) {
	s = s.Normalize()
	count, err := n.NoteRepo.CountByScope(actor.ID, s)
	if err != nil {
		log.Errorf("failed to count notes: %v", err)
		return "", apierror.InternalServerError
	}
	num := count + 1

	switch s.Kind() {
	case scope.KindModule:
		cm, err := n.CourseRepo.FindModuleByID(s.ModuleID)
		if err != nil {
			log.Errorf("failed to fetch course module: %v", err)
			return "", apierror.InternalServerError
		}
		if cm == nil {
			return "", apierror.ModuleNotFoundError
		}
		return fmt.Sprintf("Note %d of the activity %s", num, cm.Name), nil

	case scope.KindCourse:
		course, err := n.CourseRepo.FindByID(s.CourseID)
		if err != nil {
			log.Errorf("failed to fetch course: %v", err)
			return "", apierror.InternalServerError
		}
		if course == nil {
			return "", apierror.CourseNotFoundError
		}
		return fmt.Sprintf("Note %d of the course %s", num, course.ShortName), nil

	case scope.KindUser:
		related, err := n.UserRepo.FindByID(s.UserID)
		if err != nil {
			log.Errorf("failed to fetch related user: %v", err)
			return "", apierror.InternalServerError
		}
		if related == nil {
			return "", apierror.RelatedUserNotFoundError
		}
		return fmt.Sprintf("Note %d of the user %s", num, related.FullName), nil

	default:
		return fmt.Sprintf("Note %d", num), nil
	}
}

// fetchOwned loads a note and enforces the ownership invariant: only the
// author may touch a note, whatever the operation.
func (n *DefaultNoteService) fetchOwned(actor *entity.User, noteID int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(noteID)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}

	if note.AuthorID != actor.ID {
		return nil, apierror.ForbiddenError
	}
	return note, nil
}

func (n *DefaultNoteService) toNoteResponse(note *entity.Note) *contract.NoteResponse {
	contextName, tags := n.buildTags(note)

	return &contract.NoteResponse{
		ID:            note.ID,
		Subject:       note.Subject,
		Summary:       note.Summary,
		ContextName:   contextName,
		Tags:          tags,
		RelatedUserID: note.UserID,
		CourseID:      note.CourseID,
		ModuleID:      note.ModuleID,
		ItemID:        note.ItemID,
		CreatedAt:     utils.FormatEpoch(note.CreatedAt),
		LastModified:  utils.FormatEpoch(note.LastModified),
	}
}

// buildTags assembles the scope chips shown under a note. A deleted course or
// module keeps its cached name, with a dead link and a "has been deleted"
// tooltip, so orphaned notes stay meaningful.
func (n *DefaultNoteService) buildTags(note *entity.Note) (string, []*contract.NoteTag) {
	contextName := "Site"
	tags := []*contract.NoteTag{}

	if note.CourseID != 0 || note.CourseName != "" {
		contextName = "Course"
		tag := &contract.NoteTag{Title: note.CourseName, URL: "#"}
		course, err := n.CourseRepo.FindByID(note.CourseID)
		if err != nil {
			log.Errorf("failed to fetch course for tag: %v", err)
		}
		if course == nil {
			tag.Tooltip = fmt.Sprintf("%s course has been deleted", note.CourseName)
		} else {
			tag.Title = course.ShortName
			tag.URL = fmt.Sprintf("/course/view?id=%d", course.ID)
			tag.Tooltip = fmt.Sprintf("Go to the course %s", course.ShortName)
		}
		tags = append(tags, tag)
	}

	if note.ModuleID != 0 || note.ModuleName != "" {
		contextName = "Activity"
		tag := &contract.NoteTag{Title: note.ModuleName, URL: "#"}
		cm, err := n.CourseRepo.FindModuleByID(note.ModuleID)
		if err != nil {
			log.Errorf("failed to fetch course module for tag: %v", err)
		}
		if cm == nil {
			tag.Tooltip = fmt.Sprintf("%s activity has been deleted", note.ModuleName)
		} else {
			tag.Title = cm.Name
			tag.URL = fmt.Sprintf("/mod/view?id=%d", cm.ID)
			tag.Tooltip = fmt.Sprintf("Go to the activity %s", cm.Name)
		}
		tags = append(tags, tag)
	}

	if note.UserID != 0 {
		contextName = "Profile"
		tag := &contract.NoteTag{Title: "", URL: fmt.Sprintf("/user/profile?id=%d", note.UserID)}
		related, err := n.UserRepo.FindByID(note.UserID)
		if err != nil {
			log.Errorf("failed to fetch related user for tag: %v", err)
		}
		if related != nil {
			tag.Title = related.FullName
			tag.Tooltip = fmt.Sprintf("Go to the profile %s", related.FullName)
		}
		tags = append(tags, tag)
	}

	return contextName, tags
}
