package handler

import (
	"net/http"
	"strconv"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/internal/repository"
	"trxmine/pkg/mining"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminMachineHandler owns the catalog CRUD. Catalog edits never touch
// open positions; snapshots were taken at purchase time.
type AdminMachineHandler struct {
	machineRepo *repository.MachineRepository
	miningRepo  *repository.MiningRepository
}

func NewAdminMachineHandler(machineRepo *repository.MachineRepository, miningRepo *repository.MiningRepository) *AdminMachineHandler {
	return &AdminMachineHandler{machineRepo: machineRepo, miningRepo: miningRepo}
}

func (h *AdminMachineHandler) List(c *gin.Context) {
	machines, err := h.machineRepo.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	list := make([]gin.H, 0, len(machines))
	for _, m := range machines {
		active, total, err := h.miningRepo.CountByMachine(m.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		list = append(list, gin.H{
			"id":              m.ID,
			"name":            m.Name,
			"hashrate":        m.Hashrate,
			"price":           trx(m.PriceMicro),
			"power_watts":     m.PowerWatts,
			"vip_requirement": m.VIPRequirement,
			"stock":           m.Stock,
			"status":          m.Status,
			"active_miners":   active,
			"total_sold":      total,
		})
	}
	c.JSON(http.StatusOK, gin.H{"machines": list})
}

func (h *AdminMachineHandler) Create(c *gin.Context) {
	var req struct {
		Name           string          `json:"name" binding:"required"`
		Hashrate       int64           `json:"hashrate" binding:"required,min=1"`
		Price          decimal.Decimal `json:"price" binding:"required"`
		PowerWatts     int64           `json:"power_watts"`
		VIPRequirement int             `json:"vip_requirement"`
		Stock          *int64          `json:"stock"`
		Description    string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	priceMicro, ok, msg := amountMicro(req.Price)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	stock := int64(domain.UnlimitedStock)
	if req.Stock != nil {
		stock = *req.Stock
	}
	m := &models.Machine{
		Name:             req.Name,
		Hashrate:         req.Hashrate,
		PriceMicro:       priceMicro,
		PowerWatts:       req.PowerWatts,
		MaintenanceMicro: mining.MaintenanceMicro(req.PowerWatts, 24),
		VIPRequirement:   req.VIPRequirement,
		Stock:            stock,
		Description:      req.Description,
		Status:           domain.MachineStatusActive,
	}
	if err := h.machineRepo.Create(m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "machine created", "id": m.ID})
}

func (h *AdminMachineHandler) Update(c *gin.Context) {
	machineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid machine id"})
		return
	}
	var req struct {
		Name           *string          `json:"name"`
		Hashrate       *int64           `json:"hashrate"`
		Price          *decimal.Decimal `json:"price"`
		VIPRequirement *int             `json:"vip_requirement"`
		Stock          *int64           `json:"stock"`
		Description    *string          `json:"description"`
		Status         *string          `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Hashrate != nil {
		if *req.Hashrate < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hashrate must be positive"})
			return
		}
		fields["hashrate"] = *req.Hashrate
	}
	if req.Price != nil {
		priceMicro, err := ledger.FromTRX(*req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fields["price_micro"] = priceMicro
	}
	if req.VIPRequirement != nil {
		fields["vip_requirement"] = *req.VIPRequirement
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.MachineStatusActive, domain.MachineStatusInactive:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.machineRepo.UpdateFields(uint(machineID), fields); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "machine updated"})
}
