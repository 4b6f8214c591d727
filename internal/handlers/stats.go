package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"splatbot/internal/models"
	"splatbot/internal/repository"
)

type StatsHandler struct {
	userRepo     *repository.UserRepo
	questionRepo *repository.QuestionRepo
	answerRepo   *repository.AnswerRepo
	quizRepo     *repository.QuizRepo
}

func NewStatsHandler(
	userRepo *repository.UserRepo,
	questionRepo *repository.QuestionRepo,
	answerRepo *repository.AnswerRepo,
	quizRepo *repository.QuizRepo,
) *StatsHandler {
	return &StatsHandler{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		quizRepo:     quizRepo,
	}
}

// QuestionStats reports the size of the question bank, overall and per category.
func (h *StatsHandler) QuestionStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.questionRepo.CountAll(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to count questions"))
		return
	}

	byCategory, err := h.questionRepo.CountByCategory(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to count questions"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":       total,
		"by_category": byCategory,
	})
}

type userStatsResponse struct {
	User            *models.User         `json:"user"`
	AccuracyPercent float64              `json:"accuracy_percent"`
	QuizzesDone     int                  `json:"quizzes_done"`
	LastQuizAt      *time.Time           `json:"last_quiz_at"`
	Categories      []models.CategoryStat `json:"categories"`
}

// UserStats reports one user's aggregate performance by Telegram ID.
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	telegramID, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("BAD_REQUEST", "telegram_id must be an integer"))
		return
	}

	user, err := h.userRepo.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load user"))
		return
	}

	breakdown, err := h.answerRepo.CategoryBreakdown(ctx, user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load category stats"))
		return
	}

	quizzesDone, err := h.quizRepo.CountCompletedByUser(ctx, user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to count quizzes"))
		return
	}

	lastQuizAt, err := h.quizRepo.LastCompletedAt(ctx, user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL", "Failed to load quiz history"))
		return
	}

	writeJSON(w, http.StatusOK, userStatsResponse{
		User:            user,
		AccuracyPercent: user.Accuracy(),
		QuizzesDone:     quizzesDone,
		LastQuizAt:      lastQuizAt,
		Categories:      breakdown,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:    code,
			Message: message,
		},
	}
}
