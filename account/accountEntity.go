package account

import (
	"github.com/fundwit/go-commons/types"
)

type User struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	Name   string   `json:"name" gorm:"unique_index:uni_user_name"`
	Secret string   `json:"-"`

	Nickname string `json:"nickname"`
}

func (u *User) TableName() string {
	return "users"
}

type UserInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}

type UserCreation struct {
	Name   string `json:"name" binding:"required,lte=255"`
	Secret string `json:"secret" binding:"required,gte=6,lte=255"`

	Nickname string `json:"nickname" binding:"lte=255"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret" binding:"required"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=255"`
}

func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}
