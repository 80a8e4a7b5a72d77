package handler

import (
	"net/http"

	"trxmine/internal/middleware"
	"trxmine/internal/repository"
	"trxmine/pkg/verification"

	"github.com/gin-gonic/gin"
)

type VerifyHandler struct {
	codes    *verification.CodeCache
	userRepo *repository.UserRepository
}

func NewVerifyHandler(codes *verification.CodeCache, userRepo *repository.UserRepository) *VerifyHandler {
	return &VerifyHandler{codes: codes, userRepo: userRepo}
}

// RequestCode issues a verification code for the user's Telegram handle.
// The code travels out of band through the notifier; it is never echoed
// in the response.
func (h *VerifyHandler) RequestCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if u.TgUsername == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set a telegram username first"})
		return
	}
	if u.TgVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram already verified"})
		return
	}
	if _, err := h.codes.Issue(u.TgUsername); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

func (h *VerifyHandler) ConfirmCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.codes.Verify(u.TgUsername, req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
		return
	}
	if err := h.userRepo.UpdateFields(userID, map[string]interface{}{"tg_verified": true}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "telegram verified"})
}
