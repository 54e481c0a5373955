package models

type User struct {
	UserID   int       `json:"user_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Name     string    `json:"name" gorm:"type:varchar(50);not null" binding:"required,max=50"`
	Email    string    `json:"email" gorm:"type:varchar(100);not null;uniqueIndex" binding:"required,email"`
	Password string    `json:"password" gorm:"type:varchar(100);not null" binding:"required"`
	Bookings []Booking `json:"-" gorm:"foreignKey:UserID;references:UserID"`
}

func (User) TableName() string {
	return "user"
}

// UserResponse 定義會員回應結構，不包含密碼
type UserResponse struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
	}
}
