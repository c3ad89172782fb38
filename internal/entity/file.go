package entity

import "time"

// DbFileInfo 对应 sys_file 表,上传文件的元数据。
// ObjectKey 是存储后端返回的对象标识。
type DbFileInfo struct {
	ID          int64     `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	ObjectKey   string    `gorm:"column:object_key;type:varchar(512);not null" json:"object_key"`
	ContentType string    `gorm:"column:content_type;type:varchar(128)" json:"content_type"`
	Size        int64     `gorm:"column:size;not null;default:0" json:"size"`
	UploaderID  int64     `gorm:"column:uploader_id;index" json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DbFileInfo) TableName() string {
	return "sys_file"
}

// DbLoginLog 对应 sys_login_log 表,每次登录尝试记录一行。
// Code 是内部审计子码,Status 1 成功 / 0 失败。
type DbLoginLog struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"column:username;type:varchar(64);index" json:"username"`
	IP        string    `gorm:"column:ip;type:varchar(64)" json:"ip"`
	OS        string    `gorm:"column:os;type:varchar(64)" json:"os"`
	Browser   string    `gorm:"column:browser;type:varchar(64)" json:"browser"`
	Device    string    `gorm:"column:device;type:varchar(64)" json:"device"`
	Status    int       `gorm:"column:status;not null;default:0" json:"status"`
	Code      int       `gorm:"column:code;not null;default:0" json:"code"`
	Msg       string    `gorm:"column:msg;type:varchar(255)" json:"msg"`
	LoginTime time.Time `gorm:"column:login_time" json:"login_time"`
	CreatedAt time.Time `json:"created_at"`
}

func (DbLoginLog) TableName() string {
	return "sys_login_log"
}

// LoginLogQuery 登录日志查询条件
type LoginLogQuery struct {
	BaseParams
	Username string `form:"username"`
	Status   *int   `form:"status"`
}

// FileQuery 文件元数据查询条件
type FileQuery struct {
	BaseParams
	Name string `form:"name"`
}
