package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 添加收藏，返回实际插入的行数（已存在时为 0，不覆盖）
func (r *FavoriteRepository) Add(f *model.Favorite) (int64, error) {
	if f.AddedAt.IsZero() {
		f.AddedAt = time.Now()
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	return result.RowsAffected, result.Error
}

// Exists 检查是否已收藏
func (r *FavoriteRepository) Exists(userID, itemID int, itemType string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
		Count(&count).Error
	return count > 0, err
}

// Remove 取消收藏
func (r *FavoriteRepository) Remove(userID, itemID int) (int64, error) {
	result := r.db.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&model.Favorite{})
	return result.RowsAffected, result.Error
}

// ListByUser 获取用户收藏列表，最近添加在前
func (r *FavoriteRepository) ListByUser(userID int) ([]*model.Favorite, error) {
	var favorites []*model.Favorite
	err := r.db.Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// CountByUser 统计用户收藏数量
func (r *FavoriteRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Clear 清空用户收藏
func (r *FavoriteRepository) Clear(userID int) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Favorite{}).Error
}
