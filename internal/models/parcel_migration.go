package models

import (
	"encoding/json"
	"fmt"
)

const (
	DefaultSenderName   = "Unknown Sender"
	DefaultReceiverName = "Unknown Receiver"
)

// parcelRecordV0 磁盘上的原始包裹记录
// 可选字段使用指针区分“缺失”与“空字符串”
type parcelRecordV0 struct {
	ID              string           `json:"id"`
	Name            *string          `json:"name"`
	SenderName      *string          `json:"sender_name"`
	ReceiverName    *string          `json:"receiver_name"`
	Status          string           `json:"status"`
	Address         string           `json:"address"`
	StartAddress    *string          `json:"start_address"`
	EndAddress      *string          `json:"end_address"`
	Price           string           `json:"price"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	PaymentType     string           `json:"payment_type"`
	Region          string           `json:"region"`
	Image           *string          `json:"image"`
	TrackingHistory *TrackingHistory `json:"tracking_history"`
	CurrentLocation *string          `json:"current_location"`
	SchemaVersion   int              `json:"schema_version"`
}

func (r parcelRecordV0) upgrade() Parcel {
	p := Parcel{
		ID:            r.ID,
		Status:        r.Status,
		Address:       r.Address,
		Price:         r.Price,
		Phone:         r.Phone,
		Email:         r.Email,
		PaymentType:   r.PaymentType,
		Region:        r.Region,
		SchemaVersion: ParcelSchemaVersion,
	}
	p.Image = stringOr(r.Image, "")
	p.StartAddress = stringOr(r.StartAddress, "")
	p.EndAddress = stringOr(r.EndAddress, r.Address)
	p.CurrentLocation = stringOr(r.CurrentLocation, r.Address)
	p.SenderName = stringOr(r.SenderName, DefaultSenderName)
	receiver := stringOr(r.ReceiverName, stringOr(r.Name, DefaultReceiverName))
	p.SetReceiverName(receiver)
	if r.TrackingHistory != nil && *r.TrackingHistory != nil {
		p.TrackingHistory = *r.TrackingHistory
	} else {
		p.TrackingHistory = TrackingHistory{}
	}
	return p
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// DecodeParcels 解析包裹集合并执行结构迁移
// upgraded 表示至少有一条记录低于当前版本，调用方可据此回写
func DecodeParcels(data []byte) (parcels []Parcel, upgraded bool, err error) {
	var records []parcelRecordV0
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decode parcels failed: %w", err)
	}
	parcels = make([]Parcel, 0, len(records))
	for _, record := range records {
		if record.SchemaVersion < ParcelSchemaVersion {
			upgraded = true
		}
		parcels = append(parcels, record.upgrade())
	}
	return parcels, upgraded, nil
}

// NormalizeParcel 对已加载的记录补齐默认值（非 JSON 后端使用）
// 对于已是当前版本的完整记录为幂等操作
func NormalizeParcel(p *Parcel) bool {
	if p == nil {
		return false
	}
	changed := false
	if p.TrackingHistory == nil {
		p.TrackingHistory = TrackingHistory{}
		changed = true
	}
	if p.SchemaVersion < ParcelSchemaVersion {
		if p.EndAddress == "" {
			p.EndAddress = p.Address
		}
		if p.CurrentLocation == "" {
			p.CurrentLocation = p.Address
		}
		if p.SenderName == "" {
			p.SenderName = DefaultSenderName
		}
		if p.ReceiverName == "" {
			if p.Name != "" {
				p.ReceiverName = p.Name
			} else {
				p.ReceiverName = DefaultReceiverName
			}
		}
		p.SchemaVersion = ParcelSchemaVersion
		changed = true
	}
	if p.Name != p.ReceiverName {
		p.Name = p.ReceiverName
		changed = true
	}
	return changed
}
