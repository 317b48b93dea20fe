package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	// Arrange
	name := "年末カウントダウンパーティー"
	description := "屋上テラスでのカウントダウン"
	location := "ベルリン"
	startAt := time.Now().Add(24 * time.Hour)
	endAt := startAt.Add(3 * time.Hour)
	ticketPrice := 2500
	topPick := true

	// Act
	event := NewEvent(name, description, location, startAt, endAt, ticketPrice, topPick)

	// Assert
	assert.Equal(t, name, event.Name)
	assert.Equal(t, description, event.Description)
	assert.Equal(t, location, event.Location)
	assert.Equal(t, startAt, event.StartAt)
	assert.Equal(t, endAt, event.EndAt)
	assert.Equal(t, ticketPrice, event.TicketPrice)
	assert.Equal(t, topPick, event.TopPick)
	assert.Equal(t, 0, event.Likes)
	assert.Empty(t, event.ImageURL)
	assert.NotZero(t, event.CreatedAt)
	assert.NotZero(t, event.UpdatedAt)
}

func TestEvent_Validate(t *testing.T) {
	valid := func() *Event {
		return &Event{
			Name:        "テストイベント",
			Description: "説明",
			Location:    "会場",
			StartAt:     time.Now(),
			EndAt:       time.Now().Add(2 * time.Hour),
			TicketPrice: 1000,
			TopPick:     false,
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Event)
		expectedErr error
	}{
		{
			name:        "有効なイベント",
			mutate:      func(e *Event) {},
			expectedErr: nil,
		},
		{
			name:        "イベント名が空",
			mutate:      func(e *Event) { e.Name = "" },
			expectedErr: ErrEventNameRequired,
		},
		{
			name:        "説明が空",
			mutate:      func(e *Event) { e.Description = "" },
			expectedErr: ErrDescriptionRequired,
		},
		{
			name:        "開催場所が空",
			mutate:      func(e *Event) { e.Location = "" },
			expectedErr: ErrLocationRequired,
		},
		{
			name:        "開始時刻が未設定",
			mutate:      func(e *Event) { e.StartAt = time.Time{} },
			expectedErr: ErrStartAtRequired,
		},
		{
			name:        "終了時刻が未設定",
			mutate:      func(e *Event) { e.EndAt = time.Time{} },
			expectedErr: ErrEndAtRequired,
		},
		{
			name:        "チケット価格が負",
			mutate:      func(e *Event) { e.TicketPrice = -1 },
			expectedErr: ErrNegativeTicketPrice,
		},
		{
			name:        "チケット価格が0は有効",
			mutate:      func(e *Event) { e.TicketPrice = 0 },
			expectedErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			err := e.Validate()
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.True(t, IsValidationError(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEvent_Merge(t *testing.T) {
	createdAt := time.Now().Add(-48 * time.Hour)
	existing := &Event{
		ID:          42,
		Name:        "旧イベント名",
		Description: "旧説明",
		Location:    "旧会場",
		StartAt:     time.Now().Add(24 * time.Hour),
		EndAt:       time.Now().Add(27 * time.Hour),
		TicketPrice: 1000,
		TopPick:     false,
		ImageURL:    "https://example.com/events/old.png",
		Likes:       7,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	patch := Patch{
		Name:        "新イベント名",
		Description: "新説明",
		Location:    "新会場",
		StartAt:     time.Now().Add(48 * time.Hour),
		EndAt:       time.Now().Add(51 * time.Hour),
		TicketPrice: 2000,
		TopPick:     true,
	}

	existing.Merge(patch)

	// パッチ対象フィールドは全て上書きされる
	assert.Equal(t, patch.Name, existing.Name)
	assert.Equal(t, patch.Description, existing.Description)
	assert.Equal(t, patch.Location, existing.Location)
	assert.Equal(t, patch.StartAt, existing.StartAt)
	assert.Equal(t, patch.EndAt, existing.EndAt)
	assert.Equal(t, patch.TicketPrice, existing.TicketPrice)
	assert.Equal(t, patch.TopPick, existing.TopPick)

	// ID・Likes・ImageURL・CreatedAt は変化しない
	assert.Equal(t, int64(42), existing.ID)
	assert.Equal(t, 7, existing.Likes)
	assert.Equal(t, "https://example.com/events/old.png", existing.ImageURL)
	assert.Equal(t, createdAt, existing.CreatedAt)
	assert.True(t, existing.UpdatedAt.After(createdAt))
}

func TestEvent_HasImage(t *testing.T) {
	e := &Event{}
	assert.False(t, e.HasImage())

	e.ImageURL = "https://example.com/events/a.png"
	assert.True(t, e.HasImage())
}
