package errprocess

import (
	"errors"
	"fmt"

	"direct_chat_service/pkg/logger"
)

// 錯誤分類, caller 用 errors.Is 判斷
var (
	// ErrAuthRejected 帳密錯誤
	ErrAuthRejected = errors.New("auth rejected")
	// ErrProfileWriteDenied 個人資料寫入被拒, 可降級
	ErrProfileWriteDenied = errors.New("profile write denied")
	// ErrProviderUnavailable 認證服務不可用, 該操作失敗
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	// ErrStoreWriteFailed 寫入失敗, caller 可重送
	ErrStoreWriteFailed = errors.New("store write failed")
	// ErrStoreQueryFailed 查詢失敗, 只影響該列表
	ErrStoreQueryFailed = errors.New("store query failed")
)

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// Wrap 記錄並包裝為指定分類
func Wrap(kind error, cause error) error {
	logger.Log.Error(fmt.Sprintf("%v: %v", kind, cause))
	return fmt.Errorf("%w: %v", kind, cause)
}
