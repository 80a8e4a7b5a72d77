package handler

import (
	"net/http"
	"strconv"

	"trxmine/internal/domain"
	"trxmine/internal/middleware"
	"trxmine/internal/repository"
	"trxmine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type FinanceHandler struct {
	investmentSvc  *service.InvestmentService
	withdrawalSvc  *service.WithdrawalService
	investmentRepo *repository.InvestmentRepository
	txRepo         *repository.TransactionRepository
}

func NewFinanceHandler(
	investmentSvc *service.InvestmentService,
	withdrawalSvc *service.WithdrawalService,
	investmentRepo *repository.InvestmentRepository,
	txRepo *repository.TransactionRepository,
) *FinanceHandler {
	return &FinanceHandler{
		investmentSvc:  investmentSvc,
		withdrawalSvc:  withdrawalSvc,
		investmentRepo: investmentRepo,
		txRepo:         txRepo,
	}
}

// ListPlans enumerates the fixed investment offerings.
func (h *FinanceHandler) ListPlans(c *gin.Context) {
	plans := make([]gin.H, 0, len(domain.InvestmentPlans))
	for id, p := range domain.InvestmentPlans {
		plans = append(plans, gin.H{
			"id":              id,
			"name":            p.Name,
			"min_amount":      trx(p.MinAmountMicro),
			"daily_return_bp": p.DailyReturnBP,
			"period_days":     p.PeriodDays,
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *FinanceHandler) Invest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		PlanID      string          `json:"plan_id" binding:"required"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		PayPassword string          `json:"pay_password" binding:"required"`
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
	contract, err := h.investmentSvc.Invest(c.Request.Context(), userID, req.PlanID, micro, req.PayPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "investment created",
		"contract_id":    contract.ID,
		"plan":           contract.PlanName,
		"amount":         trx(contract.AmountMicro),
		"expected_total": trx(contract.ExpectedTotalMicro),
		"start_date":     contract.StartDate,
		"end_date":       contract.EndDate,
	})
}

func (h *FinanceHandler) ListInvestments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	active, err := h.investmentRepo.ListActive(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.investmentRepo.GetStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(active))
	for _, ct := range active {
		list = append(list, gin.H{
			"id":             ct.ID,
			"plan":           ct.PlanName,
			"amount":         trx(ct.AmountMicro),
			"expected_total": trx(ct.ExpectedTotalMicro),
			"start_date":     ct.StartDate,
			"end_date":       ct.EndDate,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"investments": list,
		"stats": gin.H{
			"active_plans":   stats.ActivePlans,
			"total_invested": trx(stats.TotalInvestedMicro),
		},
	})
}

func (h *FinanceHandler) InvestmentHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	contracts, err := h.investmentRepo.ListHistory(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(contracts))
	for _, ct := range contracts {
		list = append(list, gin.H{
			"id":             ct.ID,
			"plan":           ct.PlanName,
			"amount":         trx(ct.AmountMicro),
			"earned":         trx(ct.EarnedMicro),
			"expected_total": trx(ct.ExpectedTotalMicro),
			"status":         ct.Status,
			"start_date":     ct.StartDate,
			"end_date":       ct.EndDate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"investments": list})
}

func (h *FinanceHandler) Withdraw(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Address     string          `json:"address" binding:"required"`
		PayPassword string          `json:"pay_password" binding:"required"`
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
	res, err := h.withdrawalSvc.Withdraw(c.Request.Context(), userID, micro, req.PayPassword, req.Address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "withdrawal submitted",
		"order_id": res.OrderID,
		"amount":   trx(res.GrossMicro),
		"fee":      trx(res.FeeMicro),
		"net":      trx(res.NetMicro),
		"status":   domain.TxStatusPending,
	})
}

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	records, total, err := h.txRepo.ListForUser(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(records))
	for _, r := range records {
		list = append(list, gin.H{
			"id":         r.ID,
			"type":       r.Type,
			"amount":     trx(r.AmountMicro),
			"fee":        trx(r.FeeMicro),
			"status":     r.Status,
			"reference":  r.Reference,
			"created_at": r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": list,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}
