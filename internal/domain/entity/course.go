package entity

// Course mirrors the host platform's course catalog, as far as the notebook
// needs it: existence, display name and visibility checks at note creation.
type Course struct {
	ID        int64  `gorm:"primaryKey"`
	ShortName string `gorm:"not null"`
	Visible   bool   `gorm:"not null;default:true"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}

// CourseModule is an activity inside a course.
type CourseModule struct {
	ID        int64  `gorm:"primaryKey"`
	CourseID  int64  `gorm:"not null;index"` // References: courses(id)
	Name      string `gorm:"not null"`
	Visible   bool   `gorm:"not null;default:true"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}

// Enrolment links a user to a course. Only active enrolments count for the
// "user note inside a course" validation.
type Enrolment struct {
	ID       int64 `gorm:"primaryKey"`
	CourseID int64 `gorm:"not null;index"`
	UserID   int64 `gorm:"not null;index"`
	Active   bool  `gorm:"not null;default:true"`
}
