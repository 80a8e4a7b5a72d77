package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// Transaction types. VIP upgrade records carry the tier name suffix,
// e.g. vip_upgrade_silver.
const (
	TxTypeDeposit          = "deposit"
	TxTypeWithdrawal       = "withdrawal"
	TxTypeMachinePurchase  = "machine_purchase"
	TxTypeMiningEarnings   = "mining_earnings"
	TxTypeMiningEarnAll    = "mining_earnings_all"
	TxTypeInvestment       = "investment"
	TxTypeInvestmentPayout = "investment_payout"
	TxTypeVIPUpgradePrefix = "vip_upgrade_"
	TxTypeAdminDeposit     = "admin_deposit"
	TxTypeAdminWithdrawal  = "admin_withdrawal"
	TxTypeReferralBonus    = "referral_bonus"
)

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

const (
	MiningStatusActive  = "active"
	MiningStatusStopped = "stopped"
)

const (
	MachineStatusActive   = "active"
	MachineStatusInactive = "inactive"
)

const (
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
)

// UnlimitedStock marks a machine whose stock counter is not tracked.
const UnlimitedStock = -1

// InvestmentPlan is a fixed-return offering. DailyReturnBP is the daily
// return in basis points (150 = 1.5%/day).
type InvestmentPlan struct {
	Name           string
	MinAmountMicro int64
	DailyReturnBP  int64
	PeriodDays     int
}

// InvestmentPlans is the fixed plan enumeration, keyed by plan id.
var InvestmentPlans = map[string]InvestmentPlan{
	"basic":    {Name: "basic", MinAmountMicro: 10_000_000, DailyReturnBP: 150, PeriodDays: 30},
	"advanced": {Name: "advanced", MinAmountMicro: 100_000_000, DailyReturnBP: 200, PeriodDays: 60},
	"premium":  {Name: "premium", MinAmountMicro: 500_000_000, DailyReturnBP: 250, PeriodDays: 90},
}
