package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akira/credential-service/internal/core/domain"
)

type roleModel struct {
	ID   string `gorm:"type:uuid;primaryKey"`
	Name string `gorm:"type:varchar(64);uniqueIndex;not null"`
}

func (roleModel) TableName() string { return "roles" }

func (m *roleModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type userModel struct {
	ID           string      `gorm:"type:uuid;primaryKey"`
	Name         string      `gorm:"type:varchar(100)"`
	Surname      string      `gorm:"type:varchar(100)"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        string      `gorm:"type:varchar(32)"`
	Payment      string      `gorm:"type:varchar(255)"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	Roles        []roleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func fromDomainUser(u *domain.User) *userModel {
	roles := make([]roleModel, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, roleModel{ID: r.ID, Name: r.Name})
	}
	return &userModel{
		ID:           u.ID,
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Phone:        u.Phone,
		Payment:      u.Payment,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainUser(m *userModel) *domain.User {
	roles := make([]domain.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, domain.Role{ID: r.ID, Name: r.Name})
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Surname:      m.Surname,
		Email:        m.Email,
		Phone:        m.Phone,
		Payment:      m.Payment,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}
