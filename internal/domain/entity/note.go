package entity

// Note is a personal note attached to the site, a course, a course module, or
// another user's profile. A scope id of 0 means the note is not scoped to that
// thing. CourseName and ModuleName are snapshots taken at scope-assignment
// time so the note stays readable after the course or module is deleted.
type Note struct {
	ID           int64  `gorm:"primaryKey"`
	AuthorID     int64  `gorm:"not null;index"` // References: users(id)
	UserID       int64  `gorm:"not null;default:0;index"`
	CourseID     int64  `gorm:"not null;default:0;index"`
	ModuleID     int64  `gorm:"not null;default:0;index"`
	CourseName   string `gorm:"not null;default:''"`
	ModuleName   string `gorm:"not null;default:''"`
	Subject      string `gorm:"not null"`
	Summary      string `gorm:"not null"`
	ItemID       int64  `gorm:"not null;default:0"` // attachment area id from the editor
	CreatedAt    int64  `gorm:"not null;index;autoCreateTime:false"`
	LastModified int64  `gorm:"not null;autoUpdateTime:false"`
}
