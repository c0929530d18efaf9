package handlers

import (
	"net/http"

	"github.com/sjgames/scoreboard/models"
	"github.com/sjgames/scoreboard/services"
)

type BoardHandler struct {
	board *services.BoardService
}

func NewBoardHandler(board *services.BoardService) *BoardHandler {
	return &BoardHandler{board: board}
}

// --- Публичные запросы ---

func (h *BoardHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": h.board.Standings()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoardHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": h.board.History()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoardHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": h.board.Teams()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoardHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": h.board.Games()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// --- Судейские операции ---

// RecordMatch фиксирует результат матча. Поле winnerId — идентификатор
// победителя либо литерал "draw", как в сохранённом журнале.
func (h *BoardHandler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		GameID   string `json:"gameId"`
		TeamAID  string `json:"teamAId"`
		TeamBID  string `json:"teamBId"`
		WinnerID string `json:"winnerId"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.board.RecordMatch(r.Context(), input.GameID, input.TeamAID, input.TeamBID, models.ParseOutcome(input.WinnerID))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordBatch применяет батч-начисление напрямую, минуя черновик.
func (h *BoardHandler) RecordBatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		GameID      string                   `json:"gameId"`
		Assignments []models.PointAssignment `json:"assignments"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.board.RecordBatch(r.Context(), input.GameID, input.Assignments)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// --- Черновик батча ---

func (h *BoardHandler) GetBatchDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.board.Draft()
	if !ok {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": nil}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": draft}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PutBatchDraft заменяет серверный черновик батча: выбранные команды и их
// очки, чтобы авто-сохранение при истечении таймера их не потеряло.
func (h *BoardHandler) PutBatchDraft(w http.ResponseWriter, r *http.Request) {
	var input struct {
		GameID  string                   `json:"gameId"`
		Entries []models.PointAssignment `json:"entries"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.board.SetDraft(input.GameID, input.Entries); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	draft, _ := h.board.Draft()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": draft}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BoardHandler) DeleteBatchDraft(w http.ResponseWriter, r *http.Request) {
	h.board.ClearDraft()
	w.WriteHeader(http.StatusNoContent)
}

// CommitBatchDraft коммитит черновик как полноценное батч-начисление.
func (h *BoardHandler) CommitBatchDraft(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.CommitDraft(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
