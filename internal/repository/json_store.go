package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/models"
)

const (
	parcelFileName        = "parcels.json"
	changeRequestFileName = "change_requests.json"
)

// JSONStore 基于 JSON 文件的存储
// 每次写入整体重写文件（临时文件 + rename），所有读写经同一把锁串行化
type JSONStore struct {
	mu          sync.Mutex
	dir         string
	parcelPath  string
	requestPath string
}

// OpenJSONStore 打开数据目录，缺失的文件初始化为空数组，并执行一次结构迁移
func OpenJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir failed: %w", err)
	}
	s := &JSONStore{
		dir:         dir,
		parcelPath:  filepath.Join(dir, parcelFileName),
		requestPath: filepath.Join(dir, changeRequestFileName),
	}
	for _, path := range []string{s.parcelPath, s.requestPath} {
		if err := ensureJSONArrayFile(path); err != nil {
			return nil, err
		}
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir 数据目录
func (s *JSONStore) Dir() string {
	return s.dir
}

func (s *JSONStore) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.parcelPath)
	if err != nil {
		return fmt.Errorf("read parcels failed: %w", err)
	}
	parcels, upgraded, err := models.DecodeParcels(data)
	if err != nil {
		return err
	}
	if !upgraded {
		return nil
	}
	if err := writeJSONFile(s.parcelPath, parcels); err != nil {
		return err
	}
	logger.Infow("parcel_store_migrated",
		"file", s.parcelPath,
		"records", len(parcels),
		"schema_version", models.ParcelSchemaVersion,
	)
	return nil
}

func (s *JSONStore) loadParcels() ([]models.Parcel, error) {
	data, err := os.ReadFile(s.parcelPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Parcel{}, nil
		}
		return nil, fmt.Errorf("read parcels failed: %w", err)
	}
	parcels, _, err := models.DecodeParcels(data)
	return parcels, err
}

func (s *JSONStore) saveParcels(parcels []models.Parcel) error {
	if parcels == nil {
		parcels = []models.Parcel{}
	}
	return writeJSONFile(s.parcelPath, parcels)
}

func (s *JSONStore) loadChangeRequests() ([]models.ChangeRequest, error) {
	data, err := os.ReadFile(s.requestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.ChangeRequest{}, nil
		}
		return nil, fmt.Errorf("read change requests failed: %w", err)
	}
	reqs := []models.ChangeRequest{}
	if len(bytes.TrimSpace(data)) == 0 {
		return reqs, nil
	}
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("decode change requests failed: %w", err)
	}
	return reqs, nil
}

func (s *JSONStore) saveChangeRequests(reqs []models.ChangeRequest) error {
	if reqs == nil {
		reqs = []models.ChangeRequest{}
	}
	return writeJSONFile(s.requestPath, reqs)
}

func ensureJSONArrayFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s failed: %w", path, err)
	}
	return writeJSONFile(path, []struct{}{})
}

// writeJSONFile 原子写入：同目录临时文件写完并 fsync 后 rename 覆盖
func writeJSONFile(path string, value interface{}) error {
	payload, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s failed: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file failed: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}
	if _, err := tmp.Write(payload); err != nil {
		cleanup()
		return fmt.Errorf("write temp file failed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file failed: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s failed: %w", filepath.Base(path), err)
	}
	return nil
}

// JSONParcelRepository 包裹仓库的 JSON 文件实现
type JSONParcelRepository struct {
	store *JSONStore
}

// NewJSONParcelRepository 创建 JSON 包裹仓库
func NewJSONParcelRepository(store *JSONStore) *JSONParcelRepository {
	return &JSONParcelRepository{store: store}
}

// List 返回全部包裹（保持文件顺序）
func (r *JSONParcelRepository) List(ctx context.Context) ([]models.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.loadParcels()
}

// GetByID 根据运单号获取包裹（区分大小写）
func (r *JSONParcelRepository) GetByID(ctx context.Context, id string) (*models.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	parcels, err := r.store.loadParcels()
	if err != nil {
		return nil, err
	}
	if idx := indexOfParcel(parcels, id); idx >= 0 {
		parcel := parcels[idx]
		return &parcel, nil
	}
	return nil, nil
}

// Exists 判断运单号是否已存在
func (r *JSONParcelRepository) Exists(ctx context.Context, id string) (bool, error) {
	parcel, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return parcel != nil, nil
}

// Create 追加包裹
func (r *JSONParcelRepository) Create(ctx context.Context, parcel *models.Parcel) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	parcels, err := r.store.loadParcels()
	if err != nil {
		return err
	}
	if indexOfParcel(parcels, parcel.ID) >= 0 {
		return ErrDuplicateKey
	}
	models.NormalizeParcel(parcel)
	parcels = append(parcels, *parcel)
	return r.store.saveParcels(parcels)
}

// Update 覆盖更新包裹
func (r *JSONParcelRepository) Update(ctx context.Context, parcel *models.Parcel) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	parcels, err := r.store.loadParcels()
	if err != nil {
		return err
	}
	idx := indexOfParcel(parcels, parcel.ID)
	if idx < 0 {
		return ErrNotFound
	}
	models.NormalizeParcel(parcel)
	parcels[idx] = *parcel
	return r.store.saveParcels(parcels)
}

// Delete 删除包裹，不存在时仍重写文件
func (r *JSONParcelRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	parcels, err := r.store.loadParcels()
	if err != nil {
		return err
	}
	kept := parcels[:0]
	for _, p := range parcels {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return r.store.saveParcels(kept)
}

// ReplaceAll 整体替换包裹集合
func (r *JSONParcelRepository) ReplaceAll(ctx context.Context, parcels []models.Parcel) error {
	if err := ensureUniqueParcelIDs(parcels); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range parcels {
		models.NormalizeParcel(&parcels[i])
	}
	return r.store.saveParcels(parcels)
}

// ensureUniqueParcelIDs 整体替换前校验运单号唯一
func ensureUniqueParcelIDs(parcels []models.Parcel) error {
	seen := make(map[string]struct{}, len(parcels))
	for i := range parcels {
		if _, ok := seen[parcels[i].ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, parcels[i].ID)
		}
		seen[parcels[i].ID] = struct{}{}
	}
	return nil
}

func indexOfParcel(parcels []models.Parcel, id string) int {
	for i := range parcels {
		if parcels[i].ID == id {
			return i
		}
	}
	return -1
}

// JSONChangeRequestRepository 变更申请仓库的 JSON 文件实现
type JSONChangeRequestRepository struct {
	store *JSONStore
}

// NewJSONChangeRequestRepository 创建 JSON 变更申请仓库
func NewJSONChangeRequestRepository(store *JSONStore) *JSONChangeRequestRepository {
	return &JSONChangeRequestRepository{store: store}
}

// List 返回全部申请
func (r *JSONChangeRequestRepository) List(ctx context.Context) ([]models.ChangeRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.loadChangeRequests()
}

// ListByParcelID 获取指定包裹的全部申请
func (r *JSONChangeRequestRepository) ListByParcelID(ctx context.Context, parcelID string) ([]models.ChangeRequest, error) {
	reqs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.ChangeRequest, 0)
	for _, req := range reqs {
		if req.ParcelID == parcelID {
			matched = append(matched, req)
		}
	}
	return matched, nil
}

// Count 待处理申请数量
func (r *JSONChangeRequestRepository) Count(ctx context.Context) (int64, error) {
	reqs, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(reqs)), nil
}

// Create 追加申请
func (r *JSONChangeRequestRepository) Create(ctx context.Context, req *models.ChangeRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	reqs, err := r.store.loadChangeRequests()
	if err != nil {
		return err
	}
	reqs = append(reqs, *req)
	return r.store.saveChangeRequests(reqs)
}

// DeleteByParcelID 删除指定包裹的全部申请
func (r *JSONChangeRequestRepository) DeleteByParcelID(ctx context.Context, parcelID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	reqs, err := r.store.loadChangeRequests()
	if err != nil {
		return 0, err
	}
	kept := reqs[:0]
	for _, req := range reqs {
		if req.ParcelID != parcelID {
			kept = append(kept, req)
		}
	}
	removed := int64(len(reqs) - len(kept))
	if err := r.store.saveChangeRequests(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteAll 清空申请
func (r *JSONChangeRequestRepository) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.saveChangeRequests(nil)
}
