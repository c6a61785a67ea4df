package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/trackswift/internal/constants"
	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/models"
	"github.com/trackswift/internal/repository"
)

// ParcelService 包裹生命周期服务
type ParcelService struct {
	parcels  repository.ParcelRepository
	requests repository.ChangeRequestRepository
	mu       *sync.Mutex
	now      func() time.Time
	randIntN func(n int) int
}

// NewParcelService 创建包裹服务；writeMu 与变更申请服务共享，用于串行化读改写流程
func NewParcelService(parcels repository.ParcelRepository, requests repository.ChangeRequestRepository, writeMu *sync.Mutex) *ParcelService {
	if writeMu == nil {
		writeMu = &sync.Mutex{}
	}
	return &ParcelService{
		parcels:  parcels,
		requests: requests,
		mu:       writeMu,
		now:      time.Now,
		randIntN: rand.IntN,
	}
}

// AddParcelInput 管理员新增包裹参数
type AddParcelInput struct {
	ID           string
	SenderName   string
	ReceiverName string
	Status       string
	Address      string
	StartAddress string
	EndAddress   string
	Price        string
	Phone        string
	Email        string
	PaymentType  string
	Region       string
	Image        string
}

// CreateParcelInput 公开下单参数，默认值由调用方按字段是否提交决定
type CreateParcelInput struct {
	SenderName   string
	ReceiverName string
	StartAddress string
	EndAddress   string
	Price        string
	Phone        string
	Email        string
	PaymentType  string
	Region       string
	Image        string
}

// HistoryEventInput 编辑时追加的轨迹事件
type HistoryEventInput struct {
	Header      string
	Subtext     string
	Description string
	Location    *string // nil 时使用更新后的当前位置
	Date        string
	Time        string
}

// EditParcelInput 编辑包裹参数
type EditParcelInput struct {
	Status          string
	CurrentLocation string
	StartAddress    string
	EndAddress      string
	SenderName      *string // nil 保留原值
	ReceiverName    *string // nil 保留原值
	Event           *HistoryEventInput
}

// DashboardView 管理后台首页数据
type DashboardView struct {
	Parcels       []models.Parcel
	RequestsCount int64
}

// Get 按运单号获取包裹
func (s *ParcelService) Get(ctx context.Context, id string) (*models.Parcel, error) {
	parcel, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, ErrNotFound
	}
	return parcel, nil
}

// Dashboard 返回全部包裹与待处理申请数
func (s *ParcelService) Dashboard(ctx context.Context) (*DashboardView, error) {
	parcels, err := s.parcels.List(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.requests.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardView{Parcels: parcels, RequestsCount: count}, nil
}

// AddParcel 管理员新增包裹；运单号为空时由当前时间生成
func (s *ParcelService) AddParcel(ctx context.Context, input AddParcelInput) (*models.Parcel, error) {
	id := input.ID
	if id == "" {
		id = timestampParcelID(s.now())
	}
	parcel := &models.Parcel{
		ID:              id,
		SenderName:      input.SenderName,
		Status:          input.Status,
		Address:         input.Address,
		StartAddress:    input.StartAddress,
		EndAddress:      input.EndAddress,
		Price:           input.Price,
		Phone:           input.Phone,
		Email:           input.Email,
		PaymentType:     input.PaymentType,
		Region:          input.Region,
		Image:           input.Image,
		TrackingHistory: models.TrackingHistory{},
		CurrentLocation: input.StartAddress,
		SchemaVersion:   models.ParcelSchemaVersion,
	}
	parcel.SetReceiverName(input.ReceiverName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.parcels.Create(ctx, parcel); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateParcelID
		}
		return nil, err
	}
	logger.Infow("parcel_added", "parcel_id", parcel.ID, "status", parcel.Status)
	return parcel, nil
}

// CreatePublicParcel 公开下单，生成未占用的随机运单号，状态为待审核
func (s *ParcelService) CreatePublicParcel(ctx context.Context, input CreateParcelInput) (*models.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for attempt := 0; attempt < constants.PublicIDMaxAttempts; attempt++ {
		id := s.randomParcelID()
		exists, err := s.parcels.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		parcel := &models.Parcel{
			ID:           id,
			SenderName:   input.SenderName,
			Status:       constants.ParcelStatusPendingApproval,
			Address:      input.EndAddress,
			StartAddress: input.StartAddress,
			EndAddress:   input.EndAddress,
			Price:        input.Price,
			Phone:        input.Phone,
			Email:        input.Email,
			PaymentType:  input.PaymentType,
			Region:       input.Region,
			Image:        input.Image,
			TrackingHistory: models.TrackingHistory{{
				Status:    constants.EventOrderPlaced,
				Location:  constants.LocationOnline,
				Timestamp: now.Format(constants.HistoryTimeLayout),
			}},
			CurrentLocation: constants.LocationSender,
			SchemaVersion:   models.ParcelSchemaVersion,
		}
		parcel.SetReceiverName(input.ReceiverName)
		if err := s.parcels.Create(ctx, parcel); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				continue
			}
			return nil, err
		}
		logger.Infow("parcel_created", "parcel_id", parcel.ID, "attempts", attempt+1)
		return parcel, nil
	}
	return nil, ErrParcelIDExhausted
}

// Edit 覆盖基础字段，提交了轨迹标题时追加一条轨迹
func (s *ParcelService) Edit(ctx context.Context, id string, input EditParcelInput) (*models.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parcel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	parcel.Status = input.Status
	parcel.CurrentLocation = input.CurrentLocation
	parcel.StartAddress = input.StartAddress
	parcel.EndAddress = input.EndAddress
	if input.SenderName != nil {
		parcel.SenderName = *input.SenderName
	}
	if input.ReceiverName != nil {
		parcel.SetReceiverName(*input.ReceiverName)
	} else {
		parcel.SetReceiverName(parcel.ReceiverName)
	}
	if ev := input.Event; ev != nil && ev.Header != "" {
		location := parcel.CurrentLocation
		if ev.Location != nil {
			location = *ev.Location
		}
		parcel.TrackingHistory = append(parcel.TrackingHistory, models.TrackingEvent{
			Status:      ev.Header,
			Subtext:     ev.Subtext,
			Description: ev.Description,
			Location:    location,
			Timestamp:   FormatHistoryTimestamp(ev.Date, ev.Time),
		})
	}
	if err := s.parcels.Update(ctx, parcel); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	logger.Infow("parcel_edited", "parcel_id", parcel.ID, "history_len", len(parcel.TrackingHistory))
	return parcel, nil
}

// Approve 审核通过：状态置为待揽收，无轨迹时追加一条审核事件
func (s *ParcelService) Approve(ctx context.Context, id string) (*models.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parcel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	parcel.Status = constants.ParcelStatusPendingPickup
	if len(parcel.TrackingHistory) == 0 {
		parcel.TrackingHistory = append(parcel.TrackingHistory, models.TrackingEvent{
			Status:    constants.EventRequestApproved,
			Location:  constants.LocationAdminCenter,
			Timestamp: s.now().Format(constants.HistoryTimeLayout),
		})
	}
	if err := s.parcels.Update(ctx, parcel); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	logger.Infow("parcel_approved", "parcel_id", parcel.ID)
	return parcel, nil
}

// Reject 驳回即删除
func (s *ParcelService) Reject(ctx context.Context, id string) error {
	if err := s.Delete(ctx, id); err != nil {
		return err
	}
	logger.Infow("parcel_rejected", "parcel_id", id)
	return nil
}

// Delete 无条件删除，不存在时不报错
func (s *ParcelService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.parcels.Delete(ctx, id); err != nil {
		return err
	}
	logger.Infow("parcel_deleted", "parcel_id", id)
	return nil
}

// PrintLabel 面单数据：包裹与当天日期
func (s *ParcelService) PrintLabel(ctx context.Context, id string) (*models.Parcel, string, error) {
	parcel, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return parcel, s.now().Format(constants.LabelDateLayout), nil
}

// ReplaceAll 清空变更申请并整体替换包裹集合
func (s *ParcelService) ReplaceAll(ctx context.Context, parcels []models.Parcel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requests.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear change requests failed: %w", err)
	}
	if err := s.parcels.ReplaceAll(ctx, parcels); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrDuplicateParcelID
		}
		return fmt.Errorf("replace parcels failed: %w", err)
	}
	logger.Infow("parcels_replaced", "count", len(parcels))
	return nil
}

func (s *ParcelService) randomParcelID() string {
	span := constants.PublicIDMax - constants.PublicIDMin + 1
	return constants.ParcelIDPrefix + strconv.Itoa(constants.PublicIDMin+s.randIntN(span))
}

// timestampParcelID 取微秒时间戳末 5 位
func timestampParcelID(now time.Time) string {
	micros := strconv.FormatInt(now.UnixMicro(), 10)
	if len(micros) > 5 {
		micros = micros[len(micros)-5:]
	}
	return constants.ParcelIDPrefix + micros
}
