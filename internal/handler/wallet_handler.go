package handler

import (
	"net/http"

	"trxmine/internal/middleware"
	"trxmine/internal/repository"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
}

func NewWalletHandler(walletRepo *repository.WalletRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo}
}

// GetDepositAddress returns the user's deposit address, generating one on
// first call.
func (h *WalletHandler) GetDepositAddress(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address": w.Address,
		"network": w.Network,
	})
}
