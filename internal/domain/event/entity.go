package event

import "time"

// Event はイベントエンティティを表す
type Event struct {
	ID          int64
	Name        string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	TicketPrice int
	TopPick     bool
	ImageURL    string // 画像が未登録の場合は空文字列
	Likes       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewEvent は新しいイベントを作成する
func NewEvent(name, description, location string, startAt, endAt time.Time, ticketPrice int, topPick bool) *Event {
	now := time.Now()
	return &Event{
		Name:        name,
		Description: description,
		Location:    location,
		StartAt:     startAt,
		EndAt:       endAt,
		TicketPrice: ticketPrice,
		TopPick:     topPick,
		Likes:       0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Name == "" {
		return ErrEventNameRequired
	}
	if e.Description == "" {
		return ErrDescriptionRequired
	}
	if e.Location == "" {
		return ErrLocationRequired
	}
	if e.StartAt.IsZero() {
		return ErrStartAtRequired
	}
	if e.EndAt.IsZero() {
		return ErrEndAtRequired
	}
	if e.TicketPrice < 0 {
		return ErrNegativeTicketPrice
	}
	return nil
}

// HasImage は画像が登録済みかどうかを返す
func (e *Event) HasImage() bool {
	return e.ImageURL != ""
}

// Patch は更新時に既存イベントへ上書きするフィールドの集合
type Patch struct {
	Name        string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	TicketPrice int
	TopPick     bool
}

// Merge はパッチを既存イベントへ適用する
// ID・Likes・ImageURL・CreatedAt は更新対象外
// Location と EndAt も他のフィールドと同様に常に上書きする
func (e *Event) Merge(p Patch) {
	e.Name = p.Name
	e.Description = p.Description
	e.Location = p.Location
	e.StartAt = p.StartAt
	e.EndAt = p.EndAt
	e.TicketPrice = p.TicketPrice
	e.TopPick = p.TopPick
	e.UpdatedAt = time.Now()
}
