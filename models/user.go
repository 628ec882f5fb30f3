package models

import (
	"time"

	"locafesta/tools"
)

/************************************************
/**** MARK: USER TYPES ****/
/************************************************/
const USER_TYPE_NORMAL = 0
const USER_TYPE_ADMIN = 1
const USER_TYPE_CONTROLLER = 2
const USER_TYPE_STOCKMAN = 3
const USER_TYPE_DELIVERY = 4

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_AVAILABLE = 0
const USER_STATUS_PENDING = 1
const USER_STATUS_BLOCKED = 2

// User representa um usuario da empresa no sistema (quem opera o painel).
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Password  string     `gorm:"not null" json:"password" form:"password"`
	Phone     string     `gorm:"default:''" json:"phone" form:"phone"`
	Status    int        `gorm:"default:0" json:"status" form:"status"`
	Type      int        `gorm:"not null;default:0" json:"type" form:"type"`
	Admin     bool       `gorm:"not null;default:false" json:"admin" form:"admin"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if !tools.ValidateEmail(user.Email) {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}
