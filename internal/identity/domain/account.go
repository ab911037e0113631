package domain

import (
	"time"

	"direct_chat_service/pkg/encrypt"
)

// AccountStatus 用來表示帳號狀態
type AccountStatus int

// 狀態: 0=offline, 1=online, 2=ban, 3=delete
const (
	// AccountStatusOffLine 帳號離線
	AccountStatusOffLine AccountStatus = iota
	// AccountStatusOnLine 帳號上線
	AccountStatusOnLine
	// AccountStatusBan 帳號封鎖
	AccountStatusBan
	// AccountStatusDelete 帳號刪除
	AccountStatusDelete
)

// Account 用來表示帳號
// AccountID 即對外交付的 identity handle, 建立後不變
type Account struct {
	ID          int64
	AccountID   string
	Email       string
	Password    string
	DisplayName string
	AvatarURL   string
	Provider    string // 聯合登入來源, 一般帳密登入為空
	Subject     string // 聯合登入在該來源的識別碼
	Status      AccountStatus
}

// AccountSession 用來表示帳號的 Session
type AccountSession struct {
	Token        string    `json:"Token"`
	AccountID    string    `json:"AccountID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch 密碼驗證
func (a *Account) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(a.Password, inputPwd)
}

// IsExpired 檢查 Session 是否已過期
func (s *AccountSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// AccountQuery join conditions are used to query accounts
type AccountQuery struct {
	ID        *int64  `db:"id"`
	AccountID *string `db:"account_id"`
	Email     *string `db:"email"`
	Provider  *string `db:"provider"`
	Subject   *string `db:"subject"`
}
