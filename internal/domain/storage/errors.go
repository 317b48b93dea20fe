package storage

import "errors"

// Storage ドメインのエラー定義
var (
	ErrStorageUnavailable = errors.New("画像ストレージへのアクセスに失敗しました")
)
