package repository

import (
	"fmt"
	"testing"

	"notebook/internal/domain/entity"
	"notebook/internal/domain/scope"
	"notebook/internal/domain/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	author int64 = 10
	other  int64 = 20
)

func newTestRepo(t *testing.T) *DefaultNoteRepository {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	require.NoError(t, err)
	return NewNoteRepository(db)
}

// seed inserts a note with a fixed creation time so ordering is predictable.
func seed(t *testing.T, repo *DefaultNoteRepository, note *entity.Note, createdAt int64) *entity.Note {
	t.Helper()
	note.CreatedAt = createdAt
	note.LastModified = createdAt
	if note.Subject == "" {
		note.Subject = fmt.Sprintf("note created at %d", createdAt)
	}
	if note.Summary == "" {
		note.Summary = "<p>body</p>"
	}
	require.NoError(t, repo.Save(note))
	return note
}

func ids(notes []*entity.Note) []int64 {
	out := make([]int64, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestListRankedSiteScope(t *testing.T) {
	repo := newTestRepo(t)

	courseNote := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 3}, 300)
	siteNote := seed(t, repo, &entity.Note{AuthorID: author}, 100)
	userNote := seed(t, repo, &entity.Note{AuthorID: author, UserID: 5}, 200)
	seed(t, repo, &entity.Note{AuthorID: other}, 400)

	got, err := repo.ListRanked(author, scope.Scope{})
	require.NoError(t, err)

	// Pure site notes first, then everything else most-recent first.
	assert.Equal(t, []int64{siteNote.ID, courseNote.ID, userNote.ID}, ids(got))
}

func TestListRankedModuleScope(t *testing.T) {
	repo := newTestRepo(t)

	// The canonical scenario: a course-level note in C1, a note on module M1
	// of C1, and a note on module M2 of C2.
	c1Note := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1}, 100)
	m1Note := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 11}, 200)
	m2Note := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 2, ModuleID: 22}, 300)

	got, err := repo.ListRanked(author, scope.Scope{CourseID: 1, ModuleID: 11})
	require.NoError(t, err)

	assert.Equal(t, []int64{m1Note.ID, c1Note.ID, m2Note.ID}, ids(got))
}

func TestListRankedModuleScopeSixTiers(t *testing.T) {
	repo := newTestRepo(t)

	siteNote := seed(t, repo, &entity.Note{AuthorID: author}, 600)
	otherCourse := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 9}, 500)
	foreignModule := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 9, ModuleID: 99}, 400)
	siblingModule := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 12}, 300)
	courseLevel := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1}, 200)
	exact := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 11}, 100)

	got, err := repo.ListRanked(author, scope.Scope{CourseID: 1, ModuleID: 11})
	require.NoError(t, err)

	// Rank 1: the module itself; 2: module-less notes of its course;
	// 3: sibling modules; 4: modules anywhere; 5: any course note;
	// 6: the rest. Recency never beats a lower rank.
	assert.Equal(t, []int64{
		exact.ID,
		courseLevel.ID,
		siblingModule.ID,
		foreignModule.ID,
		otherCourse.ID,
		siteNote.ID,
	}, ids(got))
}

func TestListRankedCourseScope(t *testing.T) {
	repo := newTestRepo(t)

	pure := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1}, 100)
	moduleInCourse := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 11}, 400)
	otherCourse := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 2}, 300)
	siteNote := seed(t, repo, &entity.Note{AuthorID: author}, 200)

	got, err := repo.ListRanked(author, scope.Scope{CourseID: 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{pure.ID, moduleInCourse.ID, otherCourse.ID, siteNote.ID}, ids(got))
}

func TestListRankedUserScope(t *testing.T) {
	repo := newTestRepo(t)

	plain := seed(t, repo, &entity.Note{AuthorID: author, UserID: 5}, 100)
	inCourse := seed(t, repo, &entity.Note{AuthorID: author, UserID: 5, CourseID: 1}, 200)
	otherUser := seed(t, repo, &entity.Note{AuthorID: author, UserID: 6}, 300)
	siteNote := seed(t, repo, &entity.Note{AuthorID: author}, 400)

	got, err := repo.ListRanked(author, scope.Scope{UserID: 5})
	require.NoError(t, err)

	assert.Equal(t, []int64{plain.ID, inCourse.ID, otherUser.ID, siteNote.ID}, ids(got))
}

func TestListRankedUserAndCourseScope(t *testing.T) {
	repo := newTestRepo(t)

	exact := seed(t, repo, &entity.Note{AuthorID: author, UserID: 5, CourseID: 1}, 100)
	sameUserOtherCourse := seed(t, repo, &entity.Note{AuthorID: author, UserID: 5, CourseID: 2}, 200)
	otherUser := seed(t, repo, &entity.Note{AuthorID: author, UserID: 6}, 300)
	plainCourse := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1}, 400)

	got, err := repo.ListRanked(author, scope.Scope{UserID: 5, CourseID: 1})
	require.NoError(t, err)

	assert.Equal(t, []int64{exact.ID, sameUserOtherCourse.ID, otherUser.ID, plainCourse.ID}, ids(got))
}

func TestListRankedTieBreakWithinTier(t *testing.T) {
	repo := newTestRepo(t)

	older := seed(t, repo, &entity.Note{AuthorID: author}, 100)
	newer := seed(t, repo, &entity.Note{AuthorID: author}, 300)
	sameA := seed(t, repo, &entity.Note{AuthorID: author}, 200)
	sameB := seed(t, repo, &entity.Note{AuthorID: author}, 200)

	got, err := repo.ListRanked(author, scope.Scope{})
	require.NoError(t, err)

	// created DESC, then id DESC on exact creation ties.
	assert.Equal(t, []int64{newer.ID, sameB.ID, sameA.ID, older.ID}, ids(got))
}

func TestListRankedDeduplicates(t *testing.T) {
	repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 11}, int64(100+i))
	}

	got, err := repo.ListRanked(author, scope.Scope{CourseID: 1, ModuleID: 11})
	require.NoError(t, err)

	// Every note satisfies several fallback rings; each appears once.
	assert.Len(t, got, 5)
	seen := map[int64]bool{}
	for _, n := range got {
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}
}

func TestListRankedOnlyAuthorsNotes(t *testing.T) {
	repo := newTestRepo(t)

	mine := seed(t, repo, &entity.Note{AuthorID: author}, 100)
	seed(t, repo, &entity.Note{AuthorID: other}, 200)
	seed(t, repo, &entity.Note{AuthorID: other, CourseID: 1}, 300)

	got, err := repo.ListRanked(author, scope.Scope{})
	require.NoError(t, err)

	assert.Equal(t, []int64{mine.ID}, ids(got))
}

func TestListRankedEmptyWhenAuthorHasNoNotes(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListRanked(author, scope.Scope{CourseID: 1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSetCourseNameRewritesAllReferences(t *testing.T) {
	repo := newTestRepo(t)

	a := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, CourseName: "Old"}, 100)
	b := seed(t, repo, &entity.Note{AuthorID: other, CourseID: 1, CourseName: "Old"}, 200)
	untouched := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 2, CourseName: "Other"}, 300)

	require.NoError(t, repo.SetCourseName(1, "New"))

	for _, id := range []int64{a.ID, b.ID} {
		note, err := repo.FindByID(id)
		require.NoError(t, err)
		assert.Equal(t, "New", note.CourseName)
	}

	note, err := repo.FindByID(untouched.ID)
	require.NoError(t, err)
	assert.Equal(t, "Other", note.CourseName)
}

func TestClearCoursePreservesCachedName(t *testing.T) {
	repo := newTestRepo(t)

	orphan := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, CourseName: "Biology 101"}, 100)

	require.NoError(t, repo.ClearCourse(1))

	note, err := repo.FindByID(orphan.ID)
	require.NoError(t, err)
	assert.Zero(t, note.CourseID)
	assert.Equal(t, "Biology 101", note.CourseName)
}

func TestClearModulePreservesCachedName(t *testing.T) {
	repo := newTestRepo(t)

	orphan := seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 11, ModuleName: "Quiz 1"}, 100)

	require.NoError(t, repo.ClearModule(11))

	note, err := repo.FindByID(orphan.ID)
	require.NoError(t, err)
	assert.Zero(t, note.ModuleID)
	assert.Equal(t, "Quiz 1", note.ModuleName)
	assert.Equal(t, int64(1), note.CourseID)
}

func TestClearOperationsAreIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, CourseName: "Biology 101"}, 100)

	require.NoError(t, repo.ClearCourse(1))
	require.NoError(t, repo.ClearCourse(1))
}

func TestCountByScope(t *testing.T) {
	repo := newTestRepo(t)

	seed(t, repo, &entity.Note{AuthorID: author}, 100)
	seed(t, repo, &entity.Note{AuthorID: author}, 200)
	seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1}, 300)
	seed(t, repo, &entity.Note{AuthorID: author, CourseID: 1, ModuleID: 11}, 400)
	seed(t, repo, &entity.Note{AuthorID: author, UserID: 5}, 500)
	seed(t, repo, &entity.Note{AuthorID: other}, 600)

	cases := []struct {
		name string
		s    scope.Scope
		want int64
	}{
		{"site", scope.Scope{}, 2},
		{"course", scope.Scope{CourseID: 1}, 1},
		{"module", scope.Scope{CourseID: 1, ModuleID: 11}, 1},
		{"user", scope.Scope{UserID: 5}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.CountByScope(author, tc.s)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeleteBatch(t *testing.T) {
	repo := newTestRepo(t)

	a := seed(t, repo, &entity.Note{AuthorID: author}, 100)
	b := seed(t, repo, &entity.Note{AuthorID: author}, 200)
	c := seed(t, repo, &entity.Note{AuthorID: author}, 300)

	require.NoError(t, repo.DeleteBatch([]*entity.Note{a, b}))

	for _, id := range []int64{a.ID, b.ID} {
		note, err := repo.FindByID(id)
		require.NoError(t, err)
		assert.Nil(t, note)
	}

	note, err := repo.FindByID(c.ID)
	require.NoError(t, err)
	require.NotNil(t, note)
}
