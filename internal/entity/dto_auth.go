package entity

import "time"

// LoginRequest 登录请求体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Captcha  string `json:"captcha" binding:"required"`
	UUID     string `json:"uuid" binding:"required"`
}

// UserInfo 登录后返回的用户信息
type UserInfo struct {
	ID            int64      `json:"id"`
	UUID          string     `json:"uuid"`
	Username      string     `json:"username"`
	Nickname      string     `json:"nickname"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Avatar        string     `json:"avatar"`
	DeptID        *int64     `json:"dept_id"`
	Status        int        `json:"status"`
	IsSuperuser   bool       `json:"is_superuser"`
	IsStaff       bool       `json:"is_staff"`
	IsMultiLogin  bool       `json:"is_multi_login"`
	JoinTime      time.Time  `json:"join_time"`
	LastLoginTime *time.Time `json:"last_login_time"`
	Roles         []string   `json:"roles"`
}

// MakeUserInfo 由用户记录构建登录响应中的用户信息
func MakeUserInfo(user *DbUser, roles []string) UserInfo {
	if user == nil {
		return UserInfo{}
	}
	if roles == nil {
		roles = []string{}
	}
	return UserInfo{
		ID:            user.ID,
		UUID:          user.UUID,
		Username:      user.Username,
		Nickname:      user.Nickname,
		Email:         user.Email,
		Phone:         user.Phone,
		Avatar:        user.Avatar,
		DeptID:        user.DeptID,
		Status:        user.Status,
		IsSuperuser:   user.IsSuperuser,
		IsStaff:       user.IsStaff,
		IsMultiLogin:  user.IsMultiLogin,
		JoinTime:      user.JoinTime,
		LastLoginTime: user.LastLoginTime,
		Roles:         roles,
	}
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	AccessToken           string    `json:"access_token"`
	AccessTokenExpireTime time.Time `json:"access_token_expire_time"`
	RefreshToken          string    `json:"refresh_token"`
	SessionUUID           string    `json:"session_uuid"`
	User                  UserInfo  `json:"user_info"`
}

// RefreshRequest 刷新请求体
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse 刷新成功响应,沿用原会话 UUID
type RefreshResponse struct {
	AccessToken           string    `json:"access_token"`
	AccessTokenExpireTime time.Time `json:"access_token_expire_time"`
	SessionUUID           string    `json:"session_uuid"`
}

// CaptchaResponse 验证码响应
type CaptchaResponse struct {
	UUID    string `json:"uuid"`
	Image   string `json:"image"`
	ImgType string `json:"img_type"`
}

// OnlineSession 在线会话视图
type OnlineSession struct {
	SessionUUID   string    `json:"session_uuid"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	Nickname      string    `json:"nickname"`
	IP            string    `json:"ip"`
	OS            string    `json:"os"`
	Browser       string    `json:"browser"`
	Device        string    `json:"device"`
	LastLoginTime time.Time `json:"last_login_time"`
	ExpireTime    time.Time `json:"expire_time"`
}
