package repository

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/user/cinelog/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(email, username, password string) (*model.User, error) {
	// 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    time.Now(),
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id int) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// ProfileUpdate 可更新的资料/偏好字段，nil 表示不修改
type ProfileUpdate struct {
	Username         *string
	Avatar           *string
	Bio              *string
	Location         *string
	FavoriteGenres   []string
	SubtitleLanguage *string
	Autoplay         *bool
	DarkMode         *bool
}

// UpdateProfile 按提交的字段部分更新资料
func (r *UserRepository) UpdateProfile(userID int, upd *ProfileUpdate) error {
	values := map[string]interface{}{}
	if upd.Username != nil {
		values["username"] = *upd.Username
	}
	if upd.Avatar != nil {
		values["avatar"] = *upd.Avatar
	}
	if upd.Bio != nil {
		values["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		values["location"] = *upd.Location
	}
	if upd.FavoriteGenres != nil {
		values["favorite_genres"] = pq.StringArray(upd.FavoriteGenres)
	}
	if upd.SubtitleLanguage != nil {
		values["subtitle_language"] = *upd.SubtitleLanguage
	}
	if upd.Autoplay != nil {
		values["autoplay"] = *upd.Autoplay
	}
	if upd.DarkMode != nil {
		values["dark_mode"] = *upd.DarkMode
	}
	if len(values) == 0 {
		return nil
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(values).Error
}

// UpdateEmail 更新邮箱
func (r *UserRepository) UpdateEmail(userID int, email string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("email", email).Error
}

// UpdatePassword 更新密码
func (r *UserRepository) UpdatePassword(userID int, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password_hash", string(hash)).Error
}

// Count 获取用户总数
func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// Delete 删除用户
func (r *UserRepository) Delete(userID int) error {
	return r.db.Delete(&model.User{}, userID).Error
}
