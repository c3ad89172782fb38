package entity

import "time"

// DbDictType 对应 sys_dict_type 表,字典类型。
type DbDictType struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Code      string    `gorm:"column:code;type:varchar(64);uniqueIndex;not null" json:"code"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	Remark    string    `gorm:"column:remark;type:varchar(255)" json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbDictType) TableName() string {
	return "sys_dict_type"
}

// DbDictData 对应 sys_dict_data 表,字典条目。TypeCode 引用 DbDictType.Code。
type DbDictData struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	TypeCode  string    `gorm:"column:type_code;type:varchar(64);index;not null" json:"type_code"`
	Label     string    `gorm:"column:label;type:varchar(64);not null" json:"label"`
	Value     string    `gorm:"column:value;type:varchar(255);not null" json:"value"`
	Sort      int       `gorm:"column:sort;not null;default:0" json:"sort"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	Remark    string    `gorm:"column:remark;type:varchar(255)" json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbDictData) TableName() string {
	return "sys_dict_data"
}

// DbConfig 对应 sys_config 表,系统参数配置。
type DbConfig struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(64);not null" json:"name"`
	Key       string    `gorm:"column:cfg_key;type:varchar(64);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"column:cfg_value;type:varchar(1024)" json:"value"`
	Builtin   bool      `gorm:"column:builtin;not null;default:false" json:"builtin"`
	Remark    string    `gorm:"column:remark;type:varchar(255)" json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbConfig) TableName() string {
	return "sys_config"
}

// DbNotice 对应 sys_notice 表,系统通知公告。
type DbNotice struct {
	ID        int64     `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"column:title;type:varchar(128);not null" json:"title"`
	Type      int       `gorm:"column:type;not null;default:0" json:"type"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	Status    int       `gorm:"column:status;not null;default:1" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DbNotice) TableName() string {
	return "sys_notice"
}

// DictDataQuery 字典条目查询条件
type DictDataQuery struct {
	BaseParams
	TypeCode string `form:"type_code"`
	Label    string `form:"label"`
	Status   *int   `form:"status"`
}
