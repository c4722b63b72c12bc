package handler

import (
	"net/http"
	"strconv"

	"notebook/internal/contract"
	"notebook/internal/domain/entity"
	"notebook/internal/domain/scope"
	"notebook/internal/utils"
	"notebook/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NoteService interface {
	CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	ReadNote(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	UpdateNote(actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	DeleteNotes(actor *entity.User, req *contract.DeleteNotesRequest) apierror.ErrorResponse
	ListNotes(actor *entity.User, s scope.Scope) ([]*contract.NoteResponse, apierror.ErrorResponse)
	NoteViewed(actor *entity.User, noteID int64) apierror.ErrorResponse
	FormSubject(actor *entity.User, s scope.Scope) (string, apierror.ErrorResponse)
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

// GetNotes lists the actor's notes, ranked for the scope carried in the
// query string (userid/courseid/coursemoduleid, all optional).
func (n *DefaultNoteRoute) GetNotes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	s, perr := scopeFromQuery(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	notes, apierr := n.NoteService.ListNotes(user, s)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notes": notes}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	note, apierr := n.NoteService.ReadNote(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) CreateNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.CreateNote(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, &note)
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	var req contract.UpdateNoteRequest
	if err = c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	newNote, apierr := n.NoteService.UpdateNote(user, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &newNote)
}

// DeleteNotes accepts a batch of ids; the service treats the batch as
// all-or-nothing.
func (n *DefaultNoteRoute) DeleteNotes(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.DeleteNotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	serr := n.NoteService.DeleteNotes(user, &req)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

// NoteViewed records the audit-only viewed signal.
func (n *DefaultNoteRoute) NoteViewed(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	if apierr := n.NoteService.NoteViewed(user, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"viewed": true})
}

// GetFormSubject returns the default subject line for a new note in the
// given scope.
func (n *DefaultNoteRoute) GetFormSubject(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	s, perr := scopeFromQuery(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	subject, apierr := n.NoteService.FormSubject(user, s)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, echo.Map{"subject": subject})
}

func scopeFromQuery(c echo.Context) (scope.Scope, apierror.ErrorResponse) {
	var s scope.Scope
	for param, target := range map[string]*int64{
		"userid":         &s.UserID,
		"courseid":       &s.CourseID,
		"coursemoduleid": &s.ModuleID,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || val < 0 {
			return scope.Scope{}, apierror.NewInvalidParamTypeError(param, "int")
		}
		*target = val
	}
	return s, nil
}
