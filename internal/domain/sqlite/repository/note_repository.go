package repository

import (
	"errors"
	"fmt"
	"strings"

	"notebook/internal/domain/entity"
	"notebook/internal/domain/scope"

	"gorm.io/gorm"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (d *DefaultNoteRepository) FindByID(id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Save(note).Error
}

func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	return d.db.Delete(note).Error
}

// DeleteBatch removes all the given notes in a single transaction. Either
// every note goes or none does.
func (d *DefaultNoteRepository) DeleteBatch(notes []*entity.Note) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		for _, note := range notes {
			if err := tx.Delete(note).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByScope counts the author's notes sitting in the exact scope bucket,
// used to number the default subject line.
func (d *DefaultNoteRepository) CountByScope(authorID int64, s scope.Scope) (int64, error) {
	q := d.db.Model(&entity.Note{}).Where("author_id = ?", authorID)

	switch s.Kind() {
	case scope.KindUser:
		q = q.Where("user_id = ?", s.UserID)
	case scope.KindModule:
		q = q.Where("module_id = ?", s.ModuleID)
	case scope.KindCourse:
		q = q.Where("course_id = ? AND module_id = 0 AND user_id = 0", s.CourseID)
	default:
		q = q.Where("user_id = 0 AND course_id = 0 AND module_id = 0")
	}

	var count int64
	err := q.Count(&count).Error
	return count, err
}

// ListRanked runs the tiered fallback query: the author's notes, bucketed
// into widening relevance rings for the requested scope and ordered by
// (ranking ASC, created_at DESC, id DESC). For a module scope, s.CourseID
// must already hold the module's owning course; the service resolves that.
//
// Each tier is a UNION ALL arm tagged with its rank. Tiers overlap on
// purpose (every ring contains the ones inside it), so rows are deduplicated
// by id afterwards, keeping the lowest-ranked occurrence.
func (d *DefaultNoteRepository) ListRanked(authorID int64, s scope.Scope) ([]*entity.Note, error) {
	var tiers []rankedTier

	switch {
	case s.ModuleID != 0:
		tiers = []rankedTier{
			{"p.module_id = ?", []any{s.ModuleID}},
			{"p.module_id = 0 AND p.course_id = ?", []any{s.CourseID}},
			{"p.module_id <> 0 AND p.course_id = ?", []any{s.CourseID}},
			{"p.module_id <> 0", nil},
			{"p.course_id <> 0", nil},
			{"1 = 1", nil},
		}

	case s.UserID != 0 && s.CourseID != 0:
		tiers = []rankedTier{
			{"p.user_id = ? AND p.course_id = ?", []any{s.UserID, s.CourseID}},
			{"p.user_id = ?", []any{s.UserID}},
			{"p.user_id <> 0", nil},
			{"1 = 1", nil},
		}

	case s.CourseID != 0:
		tiers = []rankedTier{
			{"p.course_id = ? AND p.module_id = 0 AND p.user_id = 0", []any{s.CourseID}},
			{"p.course_id = ? AND (p.module_id <> 0 OR p.user_id <> 0)", []any{s.CourseID}},
			{"p.course_id <> 0", nil},
			{"1 = 1", nil},
		}

	case s.UserID != 0:
		tiers = []rankedTier{
			{"p.user_id = ? AND p.course_id = 0", []any{s.UserID}},
			{"p.user_id = ? AND p.course_id <> 0", []any{s.UserID}},
			{"p.user_id <> 0", nil},
			{"1 = 1", nil},
		}

	default:
		tiers = []rankedTier{
			{"p.user_id = 0 AND p.course_id = 0 AND p.module_id = 0", nil},
			{"1 = 1", nil},
		}
	}

	sql, args := buildRankedQuery(authorID, tiers)

	var rows []*entity.Note
	if err := d.db.Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return dedupeByID(rows), nil
}

type rankedTier struct {
	cond string
	args []any
}

func buildRankedQuery(authorID int64, tiers []rankedTier) (string, []any) {
	arms := make([]string, len(tiers))
	var args []any
	for i, t := range tiers {
		arms[i] = fmt.Sprintf(
			"SELECT %d AS ranking, p.* FROM notes p WHERE p.author_id = ? AND %s",
			i+1, t.cond)
		args = append(args, authorID)
		args = append(args, t.args...)
	}

	sql := "SELECT * FROM (" + strings.Join(arms, " UNION ALL ") + ") a " +
		"ORDER BY a.ranking ASC, a.created_at DESC, a.id DESC"
	return sql, args
}

func dedupeByID(rows []*entity.Note) []*entity.Note {
	seen := make(map[int64]bool, len(rows))
	out := rows[:0]
	for _, row := range rows {
		if seen[row.ID] {
			continue
		}
		seen[row.ID] = true
		out = append(out, row)
	}
	return out
}

// SetCourseName rewrites the cached course name on every note referencing the
// course. Idempotent, single transaction.
func (d *DefaultNoteRepository) SetCourseName(courseID int64, name string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entity.Note{}).
			Where("course_id = ?", courseID).
			Update("course_name", name).Error
	})
}

// ClearCourse orphans the notes of a deleted course: the id is reset to 0 but
// the cached name stays so the note remains readable.
func (d *DefaultNoteRepository) ClearCourse(courseID int64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entity.Note{}).
			Where("course_id = ?", courseID).
			Update("course_id", 0).Error
	})
}

func (d *DefaultNoteRepository) SetModuleName(moduleID int64, name string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entity.Note{}).
			Where("module_id = ?", moduleID).
			Update("module_name", name).Error
	})
}

func (d *DefaultNoteRepository) ClearModule(moduleID int64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&entity.Note{}).
			Where("module_id = ?", moduleID).
			Update("module_id", 0).Error
	})
}
