package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/trackswift/internal/models"

	"gorm.io/gorm"
)

// ParcelRepository 包裹数据访问接口
type ParcelRepository interface {
	List(ctx context.Context) ([]models.Parcel, error)
	GetByID(ctx context.Context, id string) (*models.Parcel, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, parcel *models.Parcel) error
	Update(ctx context.Context, parcel *models.Parcel) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, parcels []models.Parcel) error
}

// GormParcelRepository GORM 实现
type GormParcelRepository struct {
	db *gorm.DB
}

// NewParcelRepository 创建包裹仓库
func NewParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// List 按入库顺序返回全部包裹
func (r *GormParcelRepository) List(ctx context.Context) ([]models.Parcel, error) {
	var parcels []models.Parcel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&parcels).Error; err != nil {
		return nil, err
	}
	for i := range parcels {
		models.NormalizeParcel(&parcels[i])
	}
	return parcels, nil
}

// GetByID 根据运单号获取包裹（区分大小写）
func (r *GormParcelRepository) GetByID(ctx context.Context, id string) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&parcel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	models.NormalizeParcel(&parcel)
	return &parcel, nil
}

// Search 运单查询：先按运单号忽略大小写精确匹配，再按收件人或寄件人子串匹配，均取入库最早的一条
// sqlite 的 LOWER/LIKE 只折叠 ASCII，因此 sqlite 在内存中匹配，postgres 在数据库侧完成
func (r *GormParcelRepository) Search(ctx context.Context, query string) (*models.Parcel, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	if !supportsUnicodeFold(dbDialectName(r.db)) {
		parcels, err := r.List(ctx)
		if err != nil {
			return nil, err
		}
		return models.MatchParcel(parcels, q), nil
	}
	parcel, err := r.first(ctx, "LOWER(id) = ?", q)
	if err != nil || parcel != nil {
		return parcel, err
	}
	condition, argCount := buildLikeCondition(r.db, []string{"receiver_name", "sender_name"})
	return r.first(ctx, condition, repeatLikeArgs(containsPattern(q), argCount)...)
}

func (r *GormParcelRepository) first(ctx context.Context, condition string, args ...interface{}) (*models.Parcel, error) {
	var parcel models.Parcel
	err := r.db.WithContext(ctx).Where(condition, args...).Order("created_at ASC, id ASC").First(&parcel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	models.NormalizeParcel(&parcel)
	return &parcel, nil
}

// Exists 判断运单号是否已存在
func (r *GormParcelRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Parcel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建包裹
func (r *GormParcelRepository) Create(ctx context.Context, parcel *models.Parcel) error {
	models.NormalizeParcel(parcel)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Parcel{}).Where("id = ?", parcel.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateKey
		}
		if err := tx.Create(parcel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateKey
			}
			return err
		}
		return nil
	})
}

// Update 覆盖更新包裹（保留入库时间）
func (r *GormParcelRepository) Update(ctx context.Context, parcel *models.Parcel) error {
	models.NormalizeParcel(parcel)
	result := r.db.WithContext(ctx).
		Model(&models.Parcel{}).
		Where("id = ?", parcel.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(parcel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除包裹，不存在时忽略
func (r *GormParcelRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Parcel{}).Error
}

// ReplaceAll 用给定集合整体替换包裹表
func (r *GormParcelRepository) ReplaceAll(ctx context.Context, parcels []models.Parcel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Parcel{}).Error; err != nil {
			return err
		}
		base := time.Now()
		for i := range parcels {
			models.NormalizeParcel(&parcels[i])
			parcels[i].CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
			if err := tx.Create(&parcels[i]).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateKey
				}
				return err
			}
		}
		return nil
	})
}

// MigrateSchema 升级低版本记录并回写
func (r *GormParcelRepository) MigrateSchema(ctx context.Context) (int, error) {
	var stale []models.Parcel
	if err := r.db.WithContext(ctx).
		Where("schema_version < ? OR schema_version IS NULL", models.ParcelSchemaVersion).
		Find(&stale).Error; err != nil {
		return 0, err
	}
	for i := range stale {
		if err := r.Update(ctx, &stale[i]); err != nil {
			return i, err
		}
	}
	return len(stale), nil
}
