package event

import "context"

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成し、採番されたIDをエンティティへ反映する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id int64) (*Event, error)

	// List は全イベントをID昇順で取得する
	List(ctx context.Context) ([]*Event, error)

	// Update はイベントを更新する
	Update(ctx context.Context, event *Event) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id int64) error

	// IncrementLikes はいいね数を1だけ加算する
	// ストア側の単一UPDATE文で行うため並行呼び出しでも更新が失われない
	IncrementLikes(ctx context.Context, id int64) error

	// ListImageURLs は登録済みの画像URL一覧を取得する
	ListImageURLs(ctx context.Context) ([]string, error)
}
