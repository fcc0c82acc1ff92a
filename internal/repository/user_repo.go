package repository

import (
	"time"

	"go-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindAll() ([]model.User, error)
	FindByRoles(roles ...model.Role) ([]model.User, error)
	Create(user *model.User) error
	UpdateProfile(user *model.User) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateRole(tx *gorm.DB, userID uuid.UUID, role model.Role) error
	UpdateLastLogin(userID uuid.UUID, at time.Time) error
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByRoles returns active users holding one of roles and having an e-mail address
func (r *userRepo) FindByRoles(roles ...model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role IN ? AND is_active = ? AND email <> ''", roles, true).
		Order("username ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Create(user *model.User) error {
	return translate(r.db.Create(user).Error)
}

func (r *userRepo) UpdateProfile(user *model.User) error {
	return translate(r.db.Model(user).
		Select("email", "first_name", "last_name", "updated_by").
		Updates(user).Error)
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) UpdateRole(tx *gorm.DB, userID uuid.UUID, role model.Role) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error
}

func (r *userRepo) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

// Delete removes the user. Ledger and audit rows keep their data with the user reference cleared.
func (r *userRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.InventoryTransaction{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.AuditLog{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
