package domain

import (
	"time"
)

type SysConfig struct {
	ID          int64     `json:"id,string" form:"id"`
	ConfigKey   string    `gorm:"size:50;uniqueIndex" json:"config_key" form:"config_key"`
	ConfigValue string    `gorm:"type:text" json:"config_value" form:"config_value"`
	Description string    `gorm:"size:200" json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysConfig) TableName() string {
	return "sys_config"
}

type SysUser struct {
	ID        int64     `json:"id,string" form:"id"`
	Username  string    `gorm:"size:50;uniqueIndex" json:"username" form:"username"`
	Password  string    `gorm:"size:100" json:"-" form:"-"`
	RealName  string    `gorm:"size:50" json:"real_name" form:"real_name"`
	Email     string    `gorm:"size:100" json:"email" form:"email"`
	Mobile    string    `gorm:"size:20" json:"mobile" form:"mobile"`
	IsAdmin   bool      `json:"is_admin" form:"is_admin"`
	Status    int       `gorm:"default:1" json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy int64     `json:"created_by,string"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy int64     `json:"updated_by,string"`
}

// TableName Specify table name
func (SysUser) TableName() string {
	return "sys_user"
}
