package auth

import "errors"

// Auth ドメインのエラー定義
var (
	ErrPermissionDenied = errors.New("この操作には管理者権限が必要です")
)
