package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"-"`
	Role        string `json:"role" gorm:"type:varchar(20);default:guest;index"` // guest, owner, admin

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}
