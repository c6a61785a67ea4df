package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParcelSchemaVersion 当前包裹记录结构版本
const ParcelSchemaVersion = 1

// TrackingEvent 物流轨迹事件
// Timestamp 为展示字符串，不保证可排序
type TrackingEvent struct {
	Status      string `json:"status" bson:"status"`
	Subtext     string `json:"subtext" bson:"subtext"`
	Description string `json:"description" bson:"description"`
	Location    string `json:"location" bson:"location"`
	Timestamp   string `json:"timestamp" bson:"timestamp"`
}

// TrackingHistory 轨迹列表，按录入顺序追加
type TrackingHistory []TrackingEvent

// Value 实现 driver.Valuer 接口
func (h TrackingHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 实现 sql.Scanner 接口
func (h *TrackingHistory) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*h = TrackingHistory{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tracking history type %T", value)
	}
	if len(raw) == 0 {
		*h = TrackingHistory{}
		return nil
	}
	return json.Unmarshal(raw, h)
}

// Latest 返回最后一条轨迹
func (h TrackingHistory) Latest() (TrackingEvent, bool) {
	if len(h) == 0 {
		return TrackingEvent{}, false
	}
	return h[len(h)-1], true
}

// Parcel 包裹
type Parcel struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`                // 运单号
	Name            string          `gorm:"type:varchar(255)" json:"name" bson:"name"`                       // 旧字段，始终等于收件人
	SenderName      string          `gorm:"type:varchar(255)" json:"sender_name" bson:"sender_name"`         // 寄件人
	ReceiverName    string          `gorm:"type:varchar(255)" json:"receiver_name" bson:"receiver_name"`     // 收件人
	Status          string          `gorm:"type:varchar(120)" json:"status" bson:"status"`                   // 当前状态
	Address         string          `gorm:"type:text" json:"address" bson:"address"`                         // 旧地址字段
	StartAddress    string          `gorm:"type:text" json:"start_address" bson:"start_address"`             // 起始地址
	EndAddress      string          `gorm:"type:text" json:"end_address" bson:"end_address"`                 // 目的地址
	Price           string          `gorm:"type:varchar(64)" json:"price" bson:"price"`                      // 价格（原样存储）
	Phone           string          `gorm:"type:varchar(64)" json:"phone" bson:"phone"`                      // 电话
	Email           string          `gorm:"type:varchar(255)" json:"email" bson:"email"`                     // 邮箱
	PaymentType     string          `gorm:"type:varchar(64)" json:"payment_type" bson:"payment_type"`        // 付款方式
	Region          string          `gorm:"type:varchar(120)" json:"region" bson:"region"`                   // 区域
	Image           string          `gorm:"type:varchar(500)" json:"image" bson:"image"`                     // 图片相对路径
	TrackingHistory TrackingHistory `gorm:"type:json" json:"tracking_history" bson:"tracking_history"`       // 轨迹
	CurrentLocation string          `gorm:"type:text" json:"current_location" bson:"current_location"`       // 当前位置
	SchemaVersion   int             `gorm:"default:0" json:"schema_version,omitempty" bson:"schema_version"` // 记录结构版本
	CreatedAt       time.Time       `gorm:"index" json:"-" bson:"created_at"`                                // 入库时间，用于保持集合顺序
}

// TableName 指定表名
func (Parcel) TableName() string {
	return "parcels"
}

// SetReceiverName 同步收件人与旧 name 字段
func (p *Parcel) SetReceiverName(name string) {
	p.ReceiverName = name
	p.Name = name
}

// LatestStatus 最新状态与位置；没有轨迹时使用包裹本身的状态与位置
func (p *Parcel) LatestStatus() (status, location string) {
	if latest, ok := p.TrackingHistory.Latest(); ok {
		return latest.Status, latest.Location
	}
	return p.Status, p.CurrentLocation
}

// MatchParcel 在集合中查找与查询匹配的包裹
// 先按运单号忽略大小写精确匹配，再按收件人或寄件人忽略大小写子串匹配，均取集合中第一个
func MatchParcel(parcels []Parcel, query string) *Parcel {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for i := range parcels {
		if strings.ToLower(parcels[i].ID) == q {
			return &parcels[i]
		}
	}
	for i := range parcels {
		if strings.Contains(strings.ToLower(parcels[i].ReceiverName), q) ||
			strings.Contains(strings.ToLower(parcels[i].SenderName), q) {
			return &parcels[i]
		}
	}
	return nil
}
