package handler

import (
	"net/http"
	"strconv"

	"trxmine/internal/middleware"
	"trxmine/internal/repository"
	"trxmine/internal/service"
	"trxmine/pkg/mining"

	"github.com/gin-gonic/gin"
)

type MiningHandler struct {
	miningSvc   *service.MiningService
	miningRepo  *repository.MiningRepository
	machineRepo *repository.MachineRepository
}

func NewMiningHandler(miningSvc *service.MiningService, miningRepo *repository.MiningRepository, machineRepo *repository.MachineRepository) *MiningHandler {
	return &MiningHandler{miningSvc: miningSvc, miningRepo: miningRepo, machineRepo: machineRepo}
}

// ListMachines shows the purchasable catalog with projected earnings.
func (h *MiningHandler) ListMachines(c *gin.Context) {
	machines, err := h.machineRepo.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(machines))
	for _, m := range machines {
		daily := mining.DailyEarningMicro(m.Hashrate)
		list = append(list, gin.H{
			"id":              m.ID,
			"name":            m.Name,
			"hashrate":        m.Hashrate,
			"price":           trx(m.PriceMicro),
			"daily_earning":   trx(daily),
			"monthly_earning": trx(mining.MonthlyEarningMicro(m.Hashrate)),
			"roi_days":        mining.ROIDays(m.PriceMicro, daily),
			"vip_requirement": m.VIPRequirement,
			"stock":           m.Stock,
			"description":     m.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"machines": list})
}

func (h *MiningHandler) Purchase(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		MachineID uint `json:"machine_id" binding:"required"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	res, err := h.miningSvc.Purchase(c.Request.Context(), userID, req.MachineID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "mining started",
		"machine":       res.MachineName,
		"quantity":      res.Quantity,
		"total_paid":    trx(res.TotalPaidMicro),
		"daily_earning": trx(res.DailyEarningMicro),
		"new_balance":   trx(res.NewBalanceMicro),
	})
}

func (h *MiningHandler) Stop(c *gin.Context) {
	userID := middleware.GetUserID(c)
	positionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position id"})
		return
	}
	res, err := h.miningSvc.Stop(c.Request.Context(), userID, uint(positionID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "mining stopped",
		"earned":         trx(res.EarnedMicro),
		"duration_hours": res.DurationHours,
	})
}

func (h *MiningHandler) StopAll(c *gin.Context) {
	userID := middleware.GetUserID(c)
	res, err := h.miningSvc.StopAll(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "all mining stopped",
		"positions_stopped": res.PositionsStopped,
		"total_earned":      trx(res.TotalEarnedMicro),
	})
}

func (h *MiningHandler) ListActive(c *gin.Context) {
	userID := middleware.GetUserID(c)
	positions, err := h.miningRepo.ListActive(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.miningRepo.GetActiveStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(positions))
	for _, p := range positions {
		list = append(list, gin.H{
			"id":            p.ID,
			"machine":       p.Machine.Name,
			"hashrate":      p.Hashrate,
			"amount":        trx(p.AmountMicro),
			"daily_earning": trx(p.DailyEarningMicro),
			"started_at":    p.StartTime,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"positions": list,
		"stats": gin.H{
			"active_count":   stats.ActiveCount,
			"total_hashrate": stats.TotalHashrate,
			"daily_income":   trx(stats.DailyIncomeMicro),
		},
	})
}

func (h *MiningHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	positions, err := h.miningRepo.ListHistory(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(positions))
	for _, p := range positions {
		list = append(list, gin.H{
			"id":            p.ID,
			"machine":       p.Machine.Name,
			"hashrate":      p.Hashrate,
			"amount":        trx(p.AmountMicro),
			"daily_earning": trx(p.DailyEarningMicro),
			"total_earned":  trx(p.TotalEarningMicro),
			"status":        p.Status,
			"started_at":    p.StartTime,
			"ended_at":      p.EndTime,
		})
	}
	c.JSON(http.StatusOK, gin.H{"positions": list})
}
