package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillcheck/logger"
	"skillcheck/services"
)

type ReportHandler struct {
	quizService *services.QuizService
	log         *logger.Logger
}

func NewReportHandler(quizService *services.QuizService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		quizService: quizService,
		log:         log.With("handler", "ReportHandler"),
	}
}

func (h *ReportHandler) UserPerformance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.quizService.GetUserPerformance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) AdminStats(c *gin.Context) {
	stats, err := h.quizService.GetAdminStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) SkillGaps(c *gin.Context) {
	gaps, err := h.quizService.GetSkillGaps(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skill_gaps": gaps})
}

func (h *ReportHandler) UserStats(c *gin.Context) {
	users, err := h.quizService.GetUserStats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// TimeAnalysis takes ?period=week|month|quarter, week by default.
func (h *ReportHandler) TimeAnalysis(c *gin.Context) {
	report, err := h.quizService.GetTimeAnalysis(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
