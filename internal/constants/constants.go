package constants

// 包裹状态常量
const (
	ParcelStatusPendingApproval = "Pending Approval"
	ParcelStatusPendingPickup   = "Pending Pickup"
)

// 轨迹事件常量
const (
	EventOrderPlaced     = "Order Placed"
	EventRequestApproved = "Request Approved"
	LocationOnline       = "Online"
	LocationAdminCenter  = "Admin Center"
	LocationSender       = "Sender Location"
)

// 公开下单默认值，仅在表单未提交该字段时使用
const (
	DefaultPrice       = "TBD"
	DefaultPaymentType = "Prepaid"
	DefaultRegion      = "India"
)

// 运单号
const (
	ParcelIDPrefix = "TRK"
	// 公开下单随机后缀范围 [10000, 99999]
	PublicIDMin = 10000
	PublicIDMax = 99999
	// 随机运单号冲突时的最大重试次数
	PublicIDMaxAttempts = 32
)

// 时间格式
const (
	HistoryTimeLayout = "2006-01-02 15:04"
	LabelDateLayout   = "2006-01-02"
)

// 提示信息
const (
	FlashParcelUpdated      = "Parcel Updated Successfully"
	FlashParcelApproved     = "Parcel Request Approved!"
	FlashParcelRejected     = "Parcel Request Rejected."
	FlashParcelNotFound     = "Parcel not found"
	FlashChangeRequestSent  = "Change Request Sent to Admin."
	FlashInvalidCredentials = "Invalid credentials"
	FlashFeedbackThanks     = "Thank you for your feedback!"
	FlashDuplicateParcelID  = "Tracking ID already exists"
)

// 变更申请处理动作
const (
	ChangeRequestActionApprove = "approve"
	ChangeRequestActionReject  = "reject"
)
