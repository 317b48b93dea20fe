package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound       = errors.New("イベントが見つかりません")
	ErrEventNameRequired   = errors.New("イベント名は必須です")
	ErrDescriptionRequired = errors.New("イベントの説明は必須です")
	ErrLocationRequired    = errors.New("開催場所は必須です")
	ErrStartAtRequired     = errors.New("開始時刻は必須です")
	ErrEndAtRequired       = errors.New("終了時刻は必須です")
	ErrNegativeTicketPrice = errors.New("チケット価格は0以上である必要があります")
)

// IsValidationError は入力検証エラーかどうかを判定する
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEventNameRequired) ||
		errors.Is(err, ErrDescriptionRequired) ||
		errors.Is(err, ErrLocationRequired) ||
		errors.Is(err, ErrStartAtRequired) ||
		errors.Is(err, ErrEndAtRequired) ||
		errors.Is(err, ErrNegativeTicketPrice)
}
