package repository

import (
	"context"

	"github.com/trackswift/internal/models"

	"gorm.io/gorm"
)

// ChangeRequestRepository 变更申请数据访问接口
type ChangeRequestRepository interface {
	List(ctx context.Context) ([]models.ChangeRequest, error)
	ListByParcelID(ctx context.Context, parcelID string) ([]models.ChangeRequest, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, req *models.ChangeRequest) error
	DeleteByParcelID(ctx context.Context, parcelID string) (int64, error)
	DeleteAll(ctx context.Context) error
}

// GormChangeRequestRepository GORM 实现
type GormChangeRequestRepository struct {
	db *gorm.DB
}

// NewChangeRequestRepository 创建变更申请仓库
func NewChangeRequestRepository(db *gorm.DB) *GormChangeRequestRepository {
	return &GormChangeRequestRepository{db: db}
}

// List 按提交顺序返回全部申请
func (r *GormChangeRequestRepository) List(ctx context.Context) ([]models.ChangeRequest, error) {
	var reqs []models.ChangeRequest
	if err := r.db.WithContext(ctx).Order("record_id ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListByParcelID 获取指定包裹的全部申请
func (r *GormChangeRequestRepository) ListByParcelID(ctx context.Context, parcelID string) ([]models.ChangeRequest, error) {
	var reqs []models.ChangeRequest
	if err := r.db.WithContext(ctx).Where("parcel_id = ?", parcelID).Order("record_id ASC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Count 待处理申请数量
func (r *GormChangeRequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ChangeRequest{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 新增申请
func (r *GormChangeRequestRepository) Create(ctx context.Context, req *models.ChangeRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// DeleteByParcelID 删除指定包裹的全部申请
func (r *GormChangeRequestRepository) DeleteByParcelID(ctx context.Context, parcelID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("parcel_id = ?", parcelID).Delete(&models.ChangeRequest{})
	return result.RowsAffected, result.Error
}

// DeleteAll 清空申请表
func (r *GormChangeRequestRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ChangeRequest{}).Error
}
