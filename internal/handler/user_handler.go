package handler

import (
	"net/http"

	"trxmine/internal/middleware"
	"trxmine/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userRepo       *repository.UserRepository
	ledgerRepo     *repository.LedgerRepository
	miningRepo     *repository.MiningRepository
	investmentRepo *repository.InvestmentRepository
	vipRepo        *repository.VIPRepository
}

func NewUserHandler(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	miningRepo *repository.MiningRepository,
	investmentRepo *repository.InvestmentRepository,
	vipRepo *repository.VIPRepository,
) *UserHandler {
	return &UserHandler{
		userRepo:       userRepo,
		ledgerRepo:     ledgerRepo,
		miningRepo:     miningRepo,
		investmentRepo: investmentRepo,
		vipRepo:        vipRepo,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(u)})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		TgUsername *string `json:"tg_username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]interface{}{}
	if req.TgUsername != nil {
		// changing the handle invalidates any prior verification
		fields["tg_username"] = *req.TgUsername
		fields["tg_verified"] = false
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.userRepo.UpdateFields(userID, fields); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	l, err := h.ledgerRepo.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     trx(l.TotalMicro),
		"available": trx(l.AvailableMicro),
		"locked":    trx(l.LockedMicro),
		"earned":    trx(l.EarnedMicro),
		"withdrawn": trx(l.WithdrawnMicro),
	})
}

// GetDashboard is the user landing-page aggregate: balances plus open
// mining and investment activity.
func (h *UserHandler) GetDashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)
	l, err := h.ledgerRepo.GetByUserID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	miningStats, err := h.miningRepo.GetActiveStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	investStats, err := h.investmentRepo.GetStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	refCount, err := h.userRepo.CountReferred(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance": gin.H{
			"total":     trx(l.TotalMicro),
			"available": trx(l.AvailableMicro),
			"locked":    trx(l.LockedMicro),
			"earned":    trx(l.EarnedMicro),
			"withdrawn": trx(l.WithdrawnMicro),
		},
		"mining": gin.H{
			"active_miners":  miningStats.ActiveCount,
			"total_hashrate": miningStats.TotalHashrate,
			"daily_income":   trx(miningStats.DailyIncomeMicro),
		},
		"investments": gin.H{
			"active_plans":   investStats.ActivePlans,
			"total_invested": trx(investStats.TotalInvestedMicro),
		},
		"referrals": refCount,
	})
}

func (h *UserHandler) GetReferrals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	referred, err := h.userRepo.ListReferred(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(referred))
	for _, r := range referred {
		list = append(list, gin.H{
			"username":  r.Username,
			"vip_level": r.VIPLevel,
			"joined_at": r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"ref_code":  u.RefCode,
		"count":     len(list),
		"referrals": list,
	})
}

// GetVIPInfo lists all tiers with a can_upgrade flag; only the next
// sequential tier is upgradeable.
func (h *UserHandler) GetVIPInfo(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	tiers, err := h.vipRepo.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(tiers))
	for _, t := range tiers {
		list = append(list, gin.H{
			"level":             t.Level,
			"name":              t.Name,
			"price":             trx(t.PriceMicro),
			"features":          t.Features,
			"withdrawal_fee_bp": t.WithdrawalFeeBP,
			"min_withdrawal":    trx(t.MinWithdrawalMicro),
			"referral_bonus_bp": t.ReferralBonusBP,
			"current":           t.Level == u.VIPLevel,
			"can_upgrade":       t.Level == u.VIPLevel+1,
		})
	}
	c.JSON(http.StatusOK, gin.H{"current_level": u.VIPLevel, "tiers": list})
}
