package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sjgames/scoreboard/models"
	"github.com/sjgames/scoreboard/services"
)

type ClockHandler struct {
	board *services.BoardService
}

func NewClockHandler(board *services.BoardService) *ClockHandler {
	return &ClockHandler{board: board}
}

type clockResponse struct {
	Kind      models.ClockKind `json:"kind"`
	EndTime   int64            `json:"endTime"`
	Remaining string           `json:"remaining"`
}

func (h *ClockHandler) clockResponse(kind models.ClockKind) clockResponse {
	frame := h.board.ClockFrame()
	if kind == models.ClockGeneral {
		return clockResponse{Kind: kind, EndTime: frame.GeneralEndTime, Remaining: frame.GeneralRemaining}
	}
	return clockResponse{Kind: kind, EndTime: frame.GameEndTime, Remaining: frame.GameRemaining}
}

// GetClock — публичный остаток времени таймера, /clock/{kind}.
func (h *ClockHandler) GetClock(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseClockKind(chi.URLParam(r, "kind"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"clock": h.clockResponse(kind)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetClock ставит абсолютный дедлайн (миллисекунды epoch). Дедлайн в
// прошлом допустим — это сигнал сброса.
func (h *ClockHandler) SetClock(kind models.ClockKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			EndTime int64 `json:"endTime"`
		}
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}

		h.board.SetDeadline(r.Context(), kind, time.UnixMilli(input.EndTime))
		if err := writeJSON(w, http.StatusOK, jsonResponse{"clock": h.clockResponse(kind)}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

// ExtendClock сдвигает дедлайн на deltaMs (может быть отрицательным).
func (h *ClockHandler) ExtendClock(kind models.ClockKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			DeltaMs int64 `json:"deltaMs"`
		}
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}

		h.board.ExtendDeadline(r.Context(), kind, time.Duration(input.DeltaMs)*time.Millisecond)
		if err := writeJSON(w, http.StatusOK, jsonResponse{"clock": h.clockResponse(kind)}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}

// ResetClock обнуляет остаток (кнопка ABORT/RESET).
func (h *ClockHandler) ResetClock(kind models.ClockKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.board.ResetDeadline(r.Context(), kind)
		if err := writeJSON(w, http.StatusOK, jsonResponse{"clock": h.clockResponse(kind)}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
	}
}
