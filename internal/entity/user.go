package entity

import "time"

// DbUser 对应 sys_user 表的用户账户。
// Status: 1 正常 / 0 停用;DelFlag 非 0 表示已软删除。
type DbUser struct {
	ID            int64      `gorm:"primarykey" json:"id"`
	UUID          string     `gorm:"column:uuid;type:varchar(64);uniqueIndex;not null" json:"uuid"`
	Username      string     `gorm:"column:username;type:varchar(64);uniqueIndex;not null" json:"username"`
	Nickname      string     `gorm:"column:nickname;type:varchar(64)" json:"nickname"`
	Password      string     `gorm:"column:password;type:varchar(255)" json:"-"`
	Email         string     `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone         string     `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Avatar        string     `gorm:"column:avatar;type:varchar(255)" json:"avatar"`
	Status        int        `gorm:"column:status;index;not null;default:1" json:"status"`
	IsSuperuser   bool       `gorm:"column:is_superuser;not null;default:false" json:"is_superuser"`
	IsStaff       bool       `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	IsMultiLogin  bool       `gorm:"column:is_multi_login;not null;default:false" json:"is_multi_login"`
	DeptID        *int64     `gorm:"column:dept_id;index" json:"dept_id"`
	JoinTime      time.Time  `gorm:"column:join_time" json:"join_time"`
	LastLoginTime *time.Time `gorm:"column:last_login_time" json:"last_login_time"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DelFlag       int        `gorm:"column:del_flag;not null;default:0" json:"-"`
}

func (DbUser) TableName() string {
	return "sys_user"
}

// CanAuthenticate 停用或已删除的用户不能登录
func (u *DbUser) CanAuthenticate() bool {
	return u != nil && u.Status == StatusActive && u.DelFlag == 0
}

// UserQuery 用户列表查询条件
type UserQuery struct {
	BaseParams
	Username string `form:"username"`
	Nickname string `form:"nickname"`
	Status   *int   `form:"status"`
	DeptID   *int64 `form:"dept_id"`
	Keyword  string `form:"keyword"`
}

// UserUpdates 用户更新字段,nil 表示不更新
type UserUpdates struct {
	Nickname     *string
	Email        *string
	Phone        *string
	Avatar       *string
	Status       *int
	IsSuperuser  *bool
	IsStaff      *bool
	IsMultiLogin *bool
	DeptID       *int64
	Password     *string
}

// ToMap 转换为 GORM 更新 map
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Nickname != nil {
		updates["nickname"] = *u.Nickname
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Avatar != nil {
		updates["avatar"] = *u.Avatar
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.IsSuperuser != nil {
		updates["is_superuser"] = *u.IsSuperuser
	}
	if u.IsStaff != nil {
		updates["is_staff"] = *u.IsStaff
	}
	if u.IsMultiLogin != nil {
		updates["is_multi_login"] = *u.IsMultiLogin
	}
	if u.DeptID != nil {
		updates["dept_id"] = *u.DeptID
	}
	if u.Password != nil {
		updates["password"] = *u.Password
	}
	return updates
}

func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
