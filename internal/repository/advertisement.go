package repository

import (
	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

type AdvertisementRepository struct {
	db *gorm.DB
}

func NewAdvertisementRepository(db *gorm.DB) *AdvertisementRepository {
	return &AdvertisementRepository{db: db}
}

// ListActive 某广告位下启用的广告，按 sort_order、id 升序
func (r *AdvertisementRepository) ListActive(placement model.Placement) ([]*model.Advertisement, error) {
	var ads []*model.Advertisement
	err := r.db.Where("placement = ? AND is_active = ?", placement, true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&ads).Error
	return ads, err
}

// FirstOrCreate 按名称与广告位查找，不存在则创建
func (r *AdvertisementRepository) FirstOrCreate(ad *model.Advertisement) error {
	return r.db.
		Where(model.Advertisement{Name: ad.Name, Placement: ad.Placement}).
		Attrs(model.Advertisement{Code: ad.Code, IsActive: ad.IsActive, SortOrder: ad.SortOrder}).
		FirstOrCreate(ad).Error
}
