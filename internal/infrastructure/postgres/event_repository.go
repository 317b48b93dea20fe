package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/K-AMeus/PartynApp/internal/domain/event"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	StartAt     time.Time `db:"start_at"`
	EndAt       time.Time `db:"end_at"`
	TicketPrice int       `db:"ticket_price"`
	TopPick     bool      `db:"top_pick"`
	ImageURL    *string   `db:"image_url"`
	Likes       int       `db:"likes"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	var imageURL string
	if r.ImageURL != nil {
		imageURL = *r.ImageURL
	}
	return &event.Event{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		TicketPrice: r.TicketPrice,
		TopPick:     r.TopPick,
		ImageURL:    imageURL,
		Likes:       r.Likes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (name, description, location, start_at, end_at, ticket_price, top_pick, image_url, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var imageURL *string
	if e.ImageURL != "" {
		imageURL = &e.ImageURL
	}

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Location, e.StartAt, e.EndAt, e.TicketPrice, e.TopPick, imageURL, e.Likes, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	query := `SELECT id, name, description, location, start_at, end_at, ticket_price, top_pick, image_url, likes, created_at, updated_at FROM events WHERE id = $1`

	var row eventRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// List は全イベントをID昇順で取得する
func (r *EventRepository) List(ctx context.Context) ([]*event.Event, error) {
	query := `
		SELECT id, name, description, location, start_at, end_at, ticket_price, top_pick, image_url, likes, created_at, updated_at
		FROM events
		ORDER BY id
	`

	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// Update はイベントを更新する
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, location = $3, start_at = $4, end_at = $5,
		    ticket_price = $6, top_pick = $7, image_url = $8, updated_at = $9
		WHERE id = $10
	`

	var imageURL *string
	if e.ImageURL != "" {
		imageURL = &e.ImageURL
	}

	result, err := r.db.ExecContext(ctx, query,
		e.Name, e.Description, e.Location, e.StartAt, e.EndAt, e.TicketPrice, e.TopPick, imageURL, time.Now(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// Delete はイベントを削除する
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// IncrementLikes はいいね数を1だけ加算する
// 読み取りを挟まない単一のUPDATE文なので並行呼び出しでも加算が失われない
func (r *EventRepository) IncrementLikes(ctx context.Context, id int64) error {
	query := `UPDATE events SET likes = likes + 1 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("いいね数の更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// ListImageURLs は登録済みの画像URL一覧を取得する
func (r *EventRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	query := `SELECT image_url FROM events WHERE image_url IS NOT NULL`

	var urls []string
	err := r.db.SelectContext(ctx, &urls, query)
	if err != nil {
		return nil, fmt.Errorf("画像URL一覧取得に失敗しました: %w", err)
	}
	return urls, nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
