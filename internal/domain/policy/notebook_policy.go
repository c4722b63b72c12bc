package policy

import (
	"notebook/internal/domain/entity"
	"notebook/internal/utils/apierror"
)

// Page layouts on which the notebook is never offered.
var blockedLayouts = map[string]bool{
	"maintenance": true,
	"print":       true,
	"secure":      true,
	"embedded":    true,
	"redirect":    true,
}

// NotebookPolicy decides whether the notebook is available at all on the
// current page, for the current actor. Per-note authorization lives in the
// service: only authorship matters there.
type NotebookPolicy struct{}

func NewNotebookPolicy() *NotebookPolicy {
	return &NotebookPolicy{}
}

func (p *NotebookPolicy) CanUseNotebook(actor *entity.User, pageLayout string) apierror.ErrorResponse {
	if actor == nil || actor.Guest {
		return apierror.NotebookDisabledError
	}

	if blockedLayouts[pageLayout] {
		return apierror.NotebookDisabledError
	}
	return nil
}
