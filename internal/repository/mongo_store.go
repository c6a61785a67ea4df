package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trackswift/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoParcelCollection        = "parcels"
	mongoChangeRequestCollection = "change_requests"
)

// OpenMongo 连接 MongoDB 并确保索引存在
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Client, *mongo.Database, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo failed: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo failed: %w", err)
	}
	db := client.Database(database)
	_, err = db.Collection(mongoChangeRequestCollection).Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "parcel_id", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("create mongo index failed: %w", err)
	}
	return client, db, nil
}

// MongoParcelRepository 包裹仓库的 MongoDB 实现，_id 即运单号
type MongoParcelRepository struct {
	coll *mongo.Collection
}

// NewMongoParcelRepository 创建 MongoDB 包裹仓库
func NewMongoParcelRepository(db *mongo.Database) *MongoParcelRepository {
	return &MongoParcelRepository{coll: db.Collection(mongoParcelCollection)}
}

// List 按入库顺序返回全部包裹
func (r *MongoParcelRepository) List(ctx context.Context) ([]models.Parcel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	parcels := make([]models.Parcel, 0)
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, err
	}
	for i := range parcels {
		models.NormalizeParcel(&parcels[i])
	}
	return parcels, nil
}

// GetByID 根据运单号获取包裹
func (r *MongoParcelRepository) GetByID(ctx context.Context, id string) (*models.Parcel, error) {
	var parcel models.Parcel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&parcel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	models.NormalizeParcel(&parcel)
	return &parcel, nil
}

// Exists 判断运单号是否已存在
func (r *MongoParcelRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建包裹，重复 _id 返回 ErrDuplicateKey
func (r *MongoParcelRepository) Create(ctx context.Context, parcel *models.Parcel) error {
	models.NormalizeParcel(parcel)
	if parcel.CreatedAt.IsZero() {
		parcel.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, parcel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

// Update 覆盖更新包裹（保留入库时间）
func (r *MongoParcelRepository) Update(ctx context.Context, parcel *models.Parcel) error {
	models.NormalizeParcel(parcel)
	if parcel.CreatedAt.IsZero() {
		existing, err := r.GetByID(ctx, parcel.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
		parcel.CreatedAt = existing.CreatedAt
	}
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": parcel.ID}, parcel)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除包裹
func (r *MongoParcelRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ReplaceAll 整体替换包裹集合，运单号重复时不做任何修改
func (r *MongoParcelRepository) ReplaceAll(ctx context.Context, parcels []models.Parcel) error {
	if err := ensureUniqueParcelIDs(parcels); err != nil {
		return err
	}
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return err
	}
	if len(parcels) == 0 {
		return nil
	}
	base := time.Now()
	docs := make([]interface{}, 0, len(parcels))
	for i := range parcels {
		models.NormalizeParcel(&parcels[i])
		parcels[i].CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		docs = append(docs, parcels[i])
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

// MigrateSchema 升级低版本记录并回写
func (r *MongoParcelRepository) MigrateSchema(ctx context.Context) (int, error) {
	filter := bson.M{"schema_version": bson.M{"$not": bson.M{"$gte": models.ParcelSchemaVersion}}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	var stale []models.Parcel
	if err := cursor.All(ctx, &stale); err != nil {
		return 0, err
	}
	for i := range stale {
		if err := r.Update(ctx, &stale[i]); err != nil {
			return i, err
		}
	}
	return len(stale), nil
}

// MongoChangeRequestRepository 变更申请仓库的 MongoDB 实现
type MongoChangeRequestRepository struct {
	coll *mongo.Collection
}

// NewMongoChangeRequestRepository 创建 MongoDB 变更申请仓库
func NewMongoChangeRequestRepository(db *mongo.Database) *MongoChangeRequestRepository {
	return &MongoChangeRequestRepository{coll: db.Collection(mongoChangeRequestCollection)}
}

func (r *MongoChangeRequestRepository) find(ctx context.Context, filter interface{}) ([]models.ChangeRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	reqs := make([]models.ChangeRequest, 0)
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// List 返回全部申请
func (r *MongoChangeRequestRepository) List(ctx context.Context) ([]models.ChangeRequest, error) {
	return r.find(ctx, bson.D{})
}

// ListByParcelID 获取指定包裹的全部申请
func (r *MongoChangeRequestRepository) ListByParcelID(ctx context.Context, parcelID string) ([]models.ChangeRequest, error) {
	return r.find(ctx, bson.M{"parcel_id": parcelID})
}

// Count 待处理申请数量
func (r *MongoChangeRequestRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

// Create 新增申请
func (r *MongoChangeRequestRepository) Create(ctx context.Context, req *models.ChangeRequest) error {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, req)
	return err
}

// DeleteByParcelID 删除指定包裹的全部申请
func (r *MongoChangeRequestRepository) DeleteByParcelID(ctx context.Context, parcelID string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"parcel_id": parcelID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteAll 清空申请
func (r *MongoChangeRequestRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.D{})
	return err
}
