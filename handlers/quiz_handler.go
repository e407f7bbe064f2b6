package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skillcheck/logger"
	"skillcheck/services"
)

type QuizHandler struct {
	quizService *services.QuizService
	log         *logger.Logger
}

func NewQuizHandler(quizService *services.QuizService, log *logger.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log.With("handler", "QuizHandler"),
	}
}

func (h *QuizHandler) StartQuiz(c *gin.Context) {
	skillID, ok := parseID(c, "skillId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill ID"})
		return
	}

	quiz, err := h.quizService.StartQuiz(c.Request.Context(), skillID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.SubmitQuiz(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *QuizHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit)))

	history, err := h.quizService.GetHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *QuizHandler) GetAttempt(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	attemptID, ok := parseID(c, "attemptId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attempt ID"})
		return
	}

	detail, err := h.quizService.GetAttempt(c.Request.Context(), userID, attemptID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
