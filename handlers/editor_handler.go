package handlers

import (
	"net/http"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/services"
	"github.com/go-chi/chi/v5"
)

type EditorHandler struct {
	editorService services.EditorService
}

func NewEditorHandler(es services.EditorService) *EditorHandler {
	return &EditorHandler{editorService: es}
}

type openSessionRequest struct {
	TournamentID int `json:"tournamentId" validate:"required,gt=0"`
}

type assignRequest struct {
	ParticipantID int `json:"participantId" validate:"required,gt=0"`
}

type slotQuery struct {
	Path  string `validate:"nodepath,max=10"`
	Query string `validate:"max=100"`
}

// OpenSession godoc
// @Summary Открыть редактор сетки
// @Tags editor
// @Accept json
// @Produce json
// @Param input body openSessionRequest true "Турнир"
// @Success 201 {object} map[string]interface{} "session и view"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /editor/sessions [post]
func (h *EditorHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var input openSessionRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := validateInput(input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	session, view, err := h.editorService.Open(r.Context(), input.TournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": session, "view": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, view, err := h.editorService.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session, "view": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditorHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.editorService.Close(chi.URLParam(r, "sessionID")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EditorHandler) Reload(w http.ResponseWriter, r *http.Request) {
	view, err := h.editorService.Reload(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, view, err)
}

// GenerateFirstRound godoc
// @Summary Сгенерировать первый раунд в редакторе
// @Description Разрешено один раз после каждой загрузки.
// @Tags editor
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} services.StandingsView
// @Failure 409 {object} map[string]string "Первый раунд уже сгенерирован"
// @Router /editor/sessions/{sessionID}/first-round [post]
func (h *EditorHandler) GenerateFirstRound(w http.ResponseWriter, r *http.Request) {
	view, err := h.editorService.GenerateFirstRound(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, view, err)
}

func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	view, err := h.editorService.Save(r.Context(), chi.URLParam(r, "sessionID"))
	h.respond(w, r, view, err)
}

// Candidates godoc
// @Summary Кандидаты для слота
// @Tags editor
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param path query string false "Адрес слота: 0 - верхняя ветка, 1 - нижняя"
// @Param q query string false "Часть имени"
// @Success 200 {object} map[string]interface{} "candidates"
// @Router /editor/sessions/{sessionID}/candidates [get]
func (h *EditorHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	path, query, ok := h.readSlot(w, r)
	if !ok {
		return
	}
	found, err := h.editorService.Candidates(chi.URLParam(r, "sessionID"), path, query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"candidates": found}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignSlot godoc
// @Summary Поставить участника в слот
// @Tags editor
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param path query string false "Адрес слота"
// @Param input body assignRequest true "Участник"
// @Success 200 {object} services.StandingsView
// @Failure 422 {object} map[string]interface{} "Участник не может занять слот"
// @Router /editor/sessions/{sessionID}/slots [put]
func (h *EditorHandler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	path, _, ok := h.readSlot(w, r)
	if !ok {
		return
	}
	var input assignRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := validateInput(input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	view, err := h.editorService.Assign(r.Context(), chi.URLParam(r, "sessionID"), path, input.ParticipantID)
	h.respond(w, r, view, err)
}

func (h *EditorHandler) RetractSlot(w http.ResponseWriter, r *http.Request) {
	path, _, ok := h.readSlot(w, r)
	if !ok {
		return
	}
	view, err := h.editorService.Retract(r.Context(), chi.URLParam(r, "sessionID"), path)
	h.respond(w, r, view, err)
}

func (h *EditorHandler) readSlot(w http.ResponseWriter, r *http.Request) (brackets.Path, string, bool) {
	q := slotQuery{Path: r.URL.Query().Get("path"), Query: r.URL.Query().Get("q")}
	if err := validateInput(q); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, "", false
	}
	path, err := brackets.ParsePath(q.Path)
	if err != nil {
		badRequestResponse(w, r, err)
		return nil, "", false
	}
	return path, q.Query, true
}

func (h *EditorHandler) respond(w http.ResponseWriter, r *http.Request, view services.StandingsView, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
