package models

import "time"

// ChangeRequest 收件信息变更申请
// 同一包裹可同时存在多条申请，审核通过或驳回后整体删除
type ChangeRequest struct {
	RecordID   uint      `gorm:"primaryKey;autoIncrement" json:"-" bson:"-"`
	ParcelID   string    `gorm:"type:varchar(64);index;not null" json:"id" bson:"parcel_id"`
	NewAddress string    `gorm:"type:text" json:"new_address" bson:"new_address"`
	NewPhone   string    `gorm:"type:varchar(64)" json:"new_phone" bson:"new_phone"`
	NewRegion  string    `gorm:"type:varchar(120)" json:"new_region" bson:"new_region"`
	CreatedAt  time.Time `gorm:"index" json:"-" bson:"created_at"`
}

// TableName 指定表名
func (ChangeRequest) TableName() string {
	return "change_requests"
}
