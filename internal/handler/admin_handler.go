package handler

import (
	"net/http"
	"strconv"
	"time"

	"trxmine/internal/domain"
	"trxmine/internal/repository"
	"trxmine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	adminSvc      *service.AdminService
	withdrawalSvc *service.WithdrawalService
	investmentSvc *service.InvestmentService
	adminRepo     *repository.AdminRepository
	machineRepo   *repository.MachineRepository
	miningRepo    *repository.MiningRepository
	txRepo        *repository.TransactionRepository
	userRepo      *repository.UserRepository
}

func NewAdminHandler(
	adminSvc *service.AdminService,
	withdrawalSvc *service.WithdrawalService,
	investmentSvc *service.InvestmentService,
	adminRepo *repository.AdminRepository,
	machineRepo *repository.MachineRepository,
	miningRepo *repository.MiningRepository,
	txRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		adminSvc:      adminSvc,
		withdrawalSvc: withdrawalSvc,
		investmentSvc: investmentSvc,
		adminRepo:     adminRepo,
		machineRepo:   machineRepo,
		miningRepo:    miningRepo,
		txRepo:        txRepo,
		userRepo:      userRepo,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats(time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users":        stats.TotalUsers,
		"active_mining":      stats.ActiveMining,
		"total_balance":      trx(stats.TotalBalanceMicro),
		"today_transactions": stats.TodayTransactions,
		"new_users_today":    stats.NewUsersToday,
		"total_withdrawn":    trx(stats.WithdrawalsMicro),
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, total, err := h.adminRepo.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		list = append(list, gin.H{
			"user_id":       r.UserID,
			"username":      r.Username,
			"email":         r.Email,
			"vip_level":     r.VIPLevel,
			"status":        r.Status,
			"total":         trx(r.TotalMicro),
			"available":     trx(r.AvailableMicro),
			"active_miners": r.ActiveMiners,
			"created_at":    r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": list, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	d, err := h.adminRepo.GetUserDetail(uint(userID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": userPayload(&d.User),
		"balance": gin.H{
			"total":     trx(d.Ledger.TotalMicro),
			"available": trx(d.Ledger.AvailableMicro),
			"locked":    trx(d.Ledger.LockedMicro),
			"earned":    trx(d.Ledger.EarnedMicro),
			"withdrawn": trx(d.Ledger.WithdrawnMicro),
		},
		"total_miners":    d.TotalMiners,
		"total_referrals": d.TotalReferrals,
		"deposits":        trx(d.DepositsMicro),
		"outflows":        trx(d.WithdrawnMicro),
	})
}

// AdjustBalance credits or debits a user's ledger with an audit record.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Direction string          `json:"direction" binding:"required"`
		Reason    string          `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	micro, ok, msg := amountMicro(req.Amount)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if err := h.adminSvc.AdjustBalance(c.Request.Context(), uint(userID), micro, req.Direction, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "balance adjusted"})
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case domain.UserStatusActive, domain.UserStatusSuspended, domain.UserStatusBanned:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if err := h.userRepo.UpdateFields(uint(userID), map[string]interface{}{"status": req.Status}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *AdminHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	records, total, err := h.txRepo.List(c.Query("type"), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(records))
	for _, r := range records {
		list = append(list, gin.H{
			"id":          r.ID,
			"sender_id":   r.SenderID,
			"receiver_id": r.ReceiverID,
			"type":        r.Type,
			"amount":      trx(r.AmountMicro),
			"fee":         trx(r.FeeMicro),
			"status":      r.Status,
			"reference":   r.Reference,
			"created_at":  r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list, "total": total, "page": page, "limit": limit})
}

// ResolveWithdrawal transitions a pending withdrawal to completed or
// failed once the payout worker reports back.
func (h *AdminHandler) ResolveWithdrawal(c *gin.Context) {
	recordID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.withdrawalSvc.Resolve(c.Request.Context(), uint(recordID), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "withdrawal " + req.Status})
}

// SettleInvestments walks matured contracts and pays them out.
func (h *AdminHandler) SettleInvestments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	settled, err := h.investmentSvc.SettleMatured(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settled": settled})
}
