package handlers

import (
	"net/http"

	"github.com/Dosada05/horse-tournament/models"
	"github.com/Dosada05/horse-tournament/services"
)

// StandingsHandler serves the standings backend. Responses are the bare
// Standings document, not wrapped.
type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetStandings godoc
// @Summary Текущая турнирная сетка
// @Tags standings
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} models.Standings
// @Failure 400 {object} map[string]string "Неверный ID"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 422 {object} map[string]interface{} "Число участников не совпадает с размером сетки"
// @Router /tournaments/standings/{id} [get]
func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GetStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, standings, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateFirstRound godoc
// @Summary Посев первого раунда
// @Description Распределяет участников по слотам по очкам за последние 12 месяцев. Ничего не сохраняет.
// @Tags standings
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} models.Standings
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/standings/{id}/first-round [get]
func (h *StandingsHandler) GenerateFirstRound(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GenerateFirstRound(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, standings, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveStandings godoc
// @Summary Сохранить результаты участников
// @Tags standings
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param input body models.UpdateParticipantsInput true "Участники"
// @Success 200 {object} models.Standings
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир или участник не найден"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Security BearerAuth
// @Router /tournaments/standings/{id} [put]
func (h *StandingsHandler) SaveStandings(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.UpdateParticipantsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := validateInput(input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	standings, err := h.standingsService.SaveStandings(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, standings, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
