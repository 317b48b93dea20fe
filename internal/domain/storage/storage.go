package storage

import (
	"context"
	"time"
)

// StoredObject はオブジェクトストレージ上の保存済みオブジェクトを表す
type StoredObject struct {
	Key          string
	URL          string
	LastModified time.Time
}

// ImageStore はイベント画像の保存先インターフェース
type ImageStore interface {
	// Store は画像を保存し、公開URLを返す
	// 衝突を避けるため保存キーにはランダムな接頭辞を付与する
	Store(ctx context.Context, data []byte, filename, contentType string) (string, error)

	// List は保存済みオブジェクトの一覧を返す
	List(ctx context.Context) ([]StoredObject, error)

	// Remove は指定キーのオブジェクトを削除する
	Remove(ctx context.Context, key string) error
}
