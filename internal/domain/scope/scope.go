package scope

// Scope is the (userId, courseId, moduleId) triple identifying what a note is
// "about". A zero field means the note is not scoped to that thing.
type Scope struct {
	UserID   int64
	CourseID int64
	ModuleID int64
}

// Kind is the scope shape a note can hold. Exactly one applies at a time.
type Kind int

const (
	KindSite Kind = iota
	KindCourse
	KindModule
	KindUser
)

// Kind classifies the scope. A module wins over its course; a related user
// wins over everything else because user notes never carry a module.
func (s Scope) Kind() Kind {
	switch {
	case s.UserID != 0:
		return KindUser
	case s.ModuleID != 0:
		return KindModule
	case s.CourseID != 0:
		return KindCourse
	default:
		return KindSite
	}
}

// Normalize enforces the scope-exclusivity invariant: a related user clears
// any module.
func (s Scope) Normalize() Scope {
	if s.UserID != 0 {
		s.ModuleID = 0
	}
	return s
}

// PageContext carries what the current page knows about itself. ViewerID is
// the acting user; FrontPageID is the platform's implicit front-page course,
// which never counts as a real course scope.
type PageContext struct {
	ViewerID      int64
	CourseID      int64
	ModuleID      int64
	ProfileUserID int64
	FrontPageID   int64
}

// Resolve derives the note scope for a page. Pure function of the context:
// an activity page scopes to the module and its owning course, a course page
// to the course (plus the profile user on a profile-within-course view), a
// foreign profile page to that user, and anything else to the site.
func Resolve(pc PageContext) Scope {
	if pc.ModuleID != 0 {
		return Scope{CourseID: pc.CourseID, ModuleID: pc.ModuleID}
	}
	if pc.CourseID != 0 && pc.CourseID != pc.FrontPageID {
		s := Scope{CourseID: pc.CourseID}
		if pc.ProfileUserID != 0 && pc.ProfileUserID != pc.ViewerID {
			s.UserID = pc.ProfileUserID
		}
		return s
	}
	if pc.ProfileUserID != 0 && pc.ProfileUserID != pc.ViewerID {
		return Scope{UserID: pc.ProfileUserID}
	}
	return Scope{}
}
