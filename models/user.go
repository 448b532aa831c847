package models

import (
	"strings"
	"time"
)

// User perfil do usuário
type User struct {
	ID             string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(100)" json:"name"`
	Email          string     `gorm:"type:varchar(100);uniqueIndex" json:"email"`
	Phone          string     `gorm:"type:varchar(20);index" json:"phone"`
	CPF            string     `gorm:"type:varchar(14)" json:"cpf"`
	Age            int        `json:"age"`
	Company        string     `gorm:"type:varchar(100)" json:"company,omitempty"`
	AvatarConfig   string     `gorm:"type:varchar(255)" json:"avatarConfig,omitempty"`
	PasswordHash   string     `gorm:"type:varchar(100)" json:"-"`
	EmailConfirmed bool       `gorm:"default:false" json:"emailConfirmed"`
	Theme          string     `gorm:"type:varchar(10);default:light" json:"theme"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

// FirstName retorna o primeiro nome, usado na saudação do chat
func (u *User) FirstName() string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return u.Email
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}
