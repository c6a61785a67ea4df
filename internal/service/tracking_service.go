package service

import (
	"context"

	"github.com/trackswift/internal/models"
	"github.com/trackswift/internal/repository"
)

// TrackingService 运单查询服务
type TrackingService struct {
	parcels repository.ParcelRepository
}

// NewTrackingService 创建运单查询服务
func NewTrackingService(parcels repository.ParcelRepository) *TrackingService {
	return &TrackingService{parcels: parcels}
}

// MatchParcel 在集合中查找与查询匹配的包裹，规则见 models.MatchParcel
func MatchParcel(parcels []models.Parcel, query string) *models.Parcel {
	return models.MatchParcel(parcels, query)
}

// parcelSearcher 可在存储侧完成查询的仓库
type parcelSearcher interface {
	Search(ctx context.Context, query string) (*models.Parcel, error)
}

// Lookup 按运单号或姓名查询包裹，未命中返回 ErrNotFound
func (s *TrackingService) Lookup(ctx context.Context, query string) (*models.Parcel, error) {
	var parcel *models.Parcel
	if searcher, ok := s.parcels.(parcelSearcher); ok {
		found, err := searcher.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		parcel = found
	} else {
		parcels, err := s.parcels.List(ctx)
		if err != nil {
			return nil, err
		}
		parcel = MatchParcel(parcels, query)
	}
	if parcel == nil {
		return nil, ErrNotFound
	}
	return parcel, nil
}

// GetByID 按运单号精确获取（区分大小写）
func (s *TrackingService) GetByID(ctx context.Context, id string) (*models.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, ErrNotFound
	}
	return parcel, nil
}
