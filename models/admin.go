package models

// Admin 管理員帳號，首次啟動時自動建立一組預設管理員
type Admin struct {
	AdminID  int    `json:"admin_id" gorm:"primaryKey;autoIncrement;type:INT"`
	Username string `json:"username" gorm:"type:varchar(50);not null;uniqueIndex" binding:"required,max=50"`
	Password string `json:"password" gorm:"type:varchar(100);not null" binding:"required"`
}

func (Admin) TableName() string {
	return "admin"
}
