package http

import (
	"errors"
	"log"
	"net/http"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// Handler exposes the battle use cases as JSON-over-HTTP endpoints. Clients
// poll GET /battles/:roomId to observe joins, answers and progression; there
// is no push channel.
type Handler struct {
	service *app.BattleService
}

func NewHandler(service *app.BattleService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	battles := r.Group("/battles")
	battles.POST("/create", h.createRoom)
	battles.POST("/join", h.joinRoom)
	battles.POST("/start", h.startRoom)
	battles.GET("/:roomId", h.getState)
	battles.POST("/:roomId/next-question", h.nextQuestion)
	battles.POST("/:roomId/answer", h.submitAnswer)
	battles.GET("/:roomId/standings", h.standings)
}

type battleConfigRequest struct {
	Subject         string      `json:"subject" binding:"required"`
	Mode            domain.Mode `json:"mode" binding:"required"`
	QuestionCount   int         `json:"questionCount" binding:"required,gt=0"`
	TimePerQuestion int         `json:"timePerQuestion" binding:"required,gt=0"`
}

type createRoomRequest struct {
	UserID   string              `json:"userId" binding:"required"`
	UserName string              `json:"userName" binding:"required"`
	Avatar   string              `json:"avatar"`
	College  string              `json:"college"`
	Config   battleConfigRequest `json:"config" binding:"required"`
}

func (h *Handler) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Config.Mode.Capacity() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode: " + string(req.Config.Mode)})
		return
	}

	state, err := h.service.CreateRoom(c.Request.Context(), app.PlayerProfile{
		UID:     req.UserID,
		Name:    req.UserName,
		Avatar:  req.Avatar,
		College: req.College,
	}, domain.BattleConfig{
		Subject:         req.Config.Subject,
		Mode:            req.Config.Mode,
		QuestionCount:   req.Config.QuestionCount,
		TimePerQuestion: req.Config.TimePerQuestion,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": state.RoomID})
}

type joinRoomRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	UserName string `json:"userName" binding:"required"`
	Avatar   string `json:"avatar"`
	College  string `json:"college"`
}

func (h *Handler) joinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	err := h.service.Join(c.Request.Context(), req.RoomID, app.PlayerProfile{
		UID:     req.UserID,
		Name:    req.UserName,
		Avatar:  req.Avatar,
		College: req.College,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type startRoomRequest struct {
	RoomID string `json:"roomId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) startRoom(c *gin.Context) {
	var req startRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.service.Start(c.Request.Context(), req.RoomID, req.UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) getState(c *gin.Context) {
	state, err := h.service.GetState(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type nextQuestionRequest struct {
	NextIndex *int `json:"nextIndex" binding:"required"`
}

func (h *Handler) nextQuestion(c *gin.Context) {
	var req nextQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.service.Advance(c.Request.Context(), c.Param("roomId"), *req.NextIndex); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type submitAnswerRequest struct {
	UserID         string  `json:"userId" binding:"required"`
	QuestionIndex  *int    `json:"questionIndex" binding:"required"`
	SelectedOption *int    `json:"selectedOption" binding:"required"`
	TimeTaken      float64 `json:"timeTaken" binding:"gte=0"`
}

func (h *Handler) submitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	answer, score, err := h.service.SubmitAnswer(c.Request.Context(),
		c.Param("roomId"), req.UserID, *req.QuestionIndex, *req.SelectedOption, req.TimeTaken)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"correct": answer.IsCorrect,
		"score":   score,
	})
}

func (h *Handler) standings(c *gin.Context) {
	roomID := c.Param("roomId")
	standings, err := h.service.Standings(c.Request.Context(), roomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "standings": standings})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps domain errors onto HTTP statuses. Unexpected errors are logged
// and surface as 500 so clients know to retry.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrDuplicateAnswer),
		errors.Is(err, domain.ErrInvalidIndex):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Printf("battle api: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
