package service

import (
	"context"
	"errors"
	"sync"

	"github.com/trackswift/internal/constants"
	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/models"
	"github.com/trackswift/internal/repository"
)

// ChangeRequestService 收件信息变更申请流程
type ChangeRequestService struct {
	parcels  repository.ParcelRepository
	requests repository.ChangeRequestRepository
	mu       *sync.Mutex
}

// NewChangeRequestService 创建变更申请服务
func NewChangeRequestService(parcels repository.ParcelRepository, requests repository.ChangeRequestRepository, writeMu *sync.Mutex) *ChangeRequestService {
	if writeMu == nil {
		writeMu = &sync.Mutex{}
	}
	return &ChangeRequestService{parcels: parcels, requests: requests, mu: writeMu}
}

// ChangeRequestInput 提交的变更内容，空字段表示不修改
type ChangeRequestInput struct {
	ParcelID   string
	NewAddress string
	NewPhone   string
	NewRegion  string
}

// ChangeRequestView 审核页数据
type ChangeRequestView struct {
	Requests []models.ChangeRequest
	Parcels  []models.Parcel
}

// Submit 追加申请，不校验运单号是否存在
func (s *ChangeRequestService) Submit(ctx context.Context, input ChangeRequestInput) error {
	req := &models.ChangeRequest{
		ParcelID:   input.ParcelID,
		NewAddress: input.NewAddress,
		NewPhone:   input.NewPhone,
		NewRegion:  input.NewRegion,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requests.Create(ctx, req); err != nil {
		return err
	}
	logger.Infow("change_request_submitted", "parcel_id", req.ParcelID)
	return nil
}

// List 返回全部待处理申请与全部包裹
func (s *ChangeRequestService) List(ctx context.Context) (*ChangeRequestView, error) {
	reqs, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	parcels, err := s.parcels.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ChangeRequestView{Requests: reqs, Parcels: parcels}, nil
}

// Approve 依次合并该运单号的全部申请中的非空字段，然后删除这些申请
// 包裹不存在时仍会删除申请
func (s *ChangeRequestService) Approve(ctx context.Context, parcelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqs, err := s.requests.ListByParcelID(ctx, parcelID)
	if err != nil {
		return err
	}
	parcel, err := s.parcels.GetByID(ctx, parcelID)
	if err != nil {
		return err
	}
	if parcel != nil && len(reqs) > 0 {
		for _, req := range reqs {
			ApplyChangeRequest(parcel, req)
		}
		if err := s.parcels.Update(ctx, parcel); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	removed, err := s.requests.DeleteByParcelID(ctx, parcelID)
	if err != nil {
		return err
	}
	logger.Infow("change_request_approved", "parcel_id", parcelID, "requests", removed, "parcel_found", parcel != nil)
	return nil
}

// Reject 删除该运单号的全部申请，不修改包裹
func (s *ChangeRequestService) Reject(ctx context.Context, parcelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.requests.DeleteByParcelID(ctx, parcelID)
	if err != nil {
		return err
	}
	logger.Infow("change_request_rejected", "parcel_id", parcelID, "requests", removed)
	return nil
}

// Handle 按动作分发；未知动作不做任何修改
func (s *ChangeRequestService) Handle(ctx context.Context, action, parcelID string) error {
	switch action {
	case constants.ChangeRequestActionApprove:
		return s.Approve(ctx, parcelID)
	case constants.ChangeRequestActionReject:
		return s.Reject(ctx, parcelID)
	default:
		logger.Warnw("change_request_unknown_action", "action", action, "parcel_id", parcelID)
		return nil
	}
}

// ApplyChangeRequest 只覆盖申请中非空的字段
func ApplyChangeRequest(parcel *models.Parcel, req models.ChangeRequest) {
	if req.NewAddress != "" {
		parcel.Address = req.NewAddress
	}
	if req.NewPhone != "" {
		parcel.Phone = req.NewPhone
	}
	if req.NewRegion != "" {
		parcel.Region = req.NewRegion
	}
}
