package handler

import (
	"net/http"

	"trxmine/internal/middleware"
	"trxmine/internal/service"

	"github.com/gin-gonic/gin"
)

type VIPHandler struct {
	vipSvc *service.VIPService
}

func NewVIPHandler(vipSvc *service.VIPService) *VIPHandler {
	return &VIPHandler{vipSvc: vipSvc}
}

func (h *VIPHandler) Upgrade(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		TargetTier int `json:"target_tier" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.vipSvc.Upgrade(c.Request.Context(), userID, req.TargetTier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "upgraded to " + res.TierName,
		"new_tier":    res.NewTier,
		"amount_paid": trx(res.AmountPaidMicro),
	})
}
