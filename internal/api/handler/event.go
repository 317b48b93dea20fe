package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/K-AMeus/PartynApp/internal/api/middleware"
	"github.com/K-AMeus/PartynApp/internal/application"
	"github.com/K-AMeus/PartynApp/internal/domain/auth"
	"github.com/K-AMeus/PartynApp/internal/domain/event"
	"github.com/K-AMeus/PartynApp/internal/domain/storage"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type EventRequest struct {
	Name        string `json:"name" validate:"required" example:"Summer Rooftop Party"`
	Description string `json:"description" validate:"required" example:"Season opening party"`
	Location    string `json:"location" validate:"required" example:"Tallinn"`
	StartAt     string `json:"start_at" validate:"required" example:"2026-06-20T20:00:00+03:00"`
	EndAt       string `json:"end_at" validate:"required" example:"2026-06-21T02:00:00+03:00"`
	TicketPrice int    `json:"ticket_price" validate:"gte=0" example:"15"`
	TopPick     bool   `json:"top_pick" example:"true"`
}

type EventResponse struct {
	ID          int64  `json:"id" example:"1"`
	Name        string `json:"name" example:"Summer Rooftop Party"`
	Description string `json:"description" example:"Season opening party"`
	Location    string `json:"location" example:"Tallinn"`
	StartAt     string `json:"start_at" example:"2026-06-20T20:00:00+03:00"`
	EndAt       string `json:"end_at" example:"2026-06-21T02:00:00+03:00"`
	TicketPrice int    `json:"ticket_price" example:"15"`
	TopPick     bool   `json:"top_pick" example:"true"`
	ImageURL    string `json:"image_url,omitempty" example:"https://storage.example.com/events/abc-party.jpg"`
	Likes       int    `json:"likes" example:"42"`
	CreatedAt   string `json:"created_at" example:"2026-05-01T10:00:00+03:00"`
	UpdatedAt   string `json:"updated_at" example:"2026-05-01T10:00:00+03:00"`
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		StartAt:     e.StartAt.Format(time.RFC3339),
		EndAt:       e.EndAt.Format(time.RFC3339),
		TicketPrice: e.TicketPrice,
		TopPick:     e.TopPick,
		ImageURL:    e.ImageURL,
		Likes:       e.Likes,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

// parseEventRequest はリクエストボディからイベント情報を取り出す。
// multipart/form-data の場合は "event" パートのJSONを、それ以外はボディ全体をJSONとして解釈する。
func parseEventRequest(c echo.Context) (*EventRequest, error) {
	var req EventRequest
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		payload := c.FormValue("event")
		if payload == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "eventパートが必要です")
		}
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "eventパートの形式が不正です")
		}
	} else {
		if err := c.Bind(&req); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
		}
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// parseImageUpload はmultipartの "file" パートを読み込む。パートが無い場合は nil を返す。
func parseImageUpload(c echo.Context) (*application.ImageUpload, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "fileパートの読み込みに失敗しました")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "fileパートを開けませんでした")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "fileパートの読み込みに失敗しました")
	}

	return &application.ImageUpload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	}, nil
}

func parseTimes(req *EventRequest) (time.Time, time.Time, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "開始時刻の形式が不正です")
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "終了時刻の形式が不正です")
	}
	return startAt, endAt, nil
}

func parseEventID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "イベントIDの形式が不正です")
	}
	return id, nil
}

// eventErrorResponse はドメインエラーをHTTPステータスへ変換する
func eventErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "管理者権限が必要です"})
	case errors.Is(err, event.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "イベントが見つかりません"})
	case errors.Is(err, storage.ErrStorageUnavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "画像ストレージが利用できません"})
	case event.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します（管理者のみ、画像添付可）
// @Tags events
// @Accept mpfd
// @Produce json
// @Param event formData string true "イベント情報（JSON）"
// @Param file formData file false "イベント画像"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	req, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	startAt, endAt, err := parseTimes(req)
	if err != nil {
		return err
	}
	image, err := parseImageUpload(c)
	if err != nil {
		return err
	}

	input := application.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     startAt,
		EndAt:       endAt,
		TicketPrice: req.TicketPrice,
		TopPick:     req.TopPick,
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), middleware.ClaimsFrom(c), input, image)
	if err != nil {
		return eventErrorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Param id path int true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return err
	}
	e, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		return eventErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description イベントの一覧を取得します
// @Tags events
// @Produce json
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.ListEvents(c.Request().Context())
	if err != nil {
		return eventErrorResponse(c, err)
	}

	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// Update godoc
// @Summary イベントを更新
// @Description 指定IDのイベントを更新します（管理者のみ、画像添付可）
// @Tags events
// @Accept mpfd
// @Produce json
// @Param id path int true "イベントID"
// @Param event formData string true "イベント情報（JSON）"
// @Param file formData file false "イベント画像"
// @Success 200 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return err
	}
	req, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	startAt, endAt, err := parseTimes(req)
	if err != nil {
		return err
	}
	image, err := parseImageUpload(c)
	if err != nil {
		return err
	}

	input := application.UpdateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     startAt,
		EndAt:       endAt,
		TicketPrice: req.TicketPrice,
		TopPick:     req.TopPick,
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), middleware.ClaimsFrom(c), id, input, image)
	if err != nil {
		return eventErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Description 指定IDのイベントを削除します（管理者のみ）
// @Tags events
// @Param id path int true "イベントID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), middleware.ClaimsFrom(c), id); err != nil {
		return eventErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Like godoc
// @Summary イベントにいいねを付ける
// @Description 指定IDのイベントのいいね数を1増やします
// @Tags events
// @Param id path int true "イベントID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /events/{id}/like [post]
func (h *EventHandler) Like(c echo.Context) error {
	id, err := parseEventID(c)
	if err != nil {
		return err
	}
	if err := h.eventService.LikeEvent(c.Request().Context(), id); err != nil {
		return eventErrorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
