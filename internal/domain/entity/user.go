package entity

// User is the general basic structure of all users across the platform
type User struct {
	ID        int64  `gorm:"primaryKey"`
	SubUUID   string `gorm:"not null"`
	Username  string `gorm:"not null"`
	FullName  string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Active    bool   `gorm:"not null;default:true"`
	Suspended bool   `gorm:"not null;default:false"`
	Guest     bool   `gorm:"not null;default:false"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`
}
