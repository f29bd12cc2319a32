package domain

// User represents a registered account. The core pipeline only consumes
// the id and display name; credentials stay in the auth handlers.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
