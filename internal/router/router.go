package router

import (
	"time"

	"trxmine/config"
	"trxmine/internal/handler"
	"trxmine/internal/ledger"
	"trxmine/internal/middleware"
	"trxmine/internal/repository"
	"trxmine/internal/service"
	"trxmine/pkg/tron"
	"trxmine/pkg/verification"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	miningRepo := repository.NewMiningRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	vipRepo := repository.NewVIPRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	addresses := tron.NewSimulator(cfg.Wallet.Network)
	walletRepo := repository.NewWalletRepository(db, addresses, cfg.Wallet.Network)
	codes := verification.NewCodeCache(5*time.Minute, verification.LogNotifier{})

	// Services
	mutator := ledger.NewMutator(db, cfg.Ledger.TxTimeout, cfg.Ledger.MaxRetries)
	authSvc := service.NewAuthService(cfg, db, userRepo)
	miningSvc := service.NewMiningService(mutator)
	investmentSvc := service.NewInvestmentService(mutator, investmentRepo)
	vipSvc := service.NewVIPService(mutator)
	withdrawalSvc := service.NewWithdrawalService(mutator, addresses)
	referralSvc := service.NewReferralService(mutator, userRepo, vipRepo)
	adminSvc := service.NewAdminService(mutator, referralSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userRepo, ledgerRepo, miningRepo, investmentRepo, vipRepo)
	miningHandler := handler.NewMiningHandler(miningSvc, miningRepo, machineRepo)
	financeHandler := handler.NewFinanceHandler(investmentSvc, withdrawalSvc, investmentRepo, txRepo)
	vipHandler := handler.NewVIPHandler(vipSvc)
	walletHandler := handler.NewWalletHandler(walletRepo)
	verifyHandler := handler.NewVerifyHandler(codes, userRepo)
	adminHandler := handler.NewAdminHandler(adminSvc, withdrawalSvc, investmentSvc, adminRepo, machineRepo, miningRepo, txRepo, userRepo)
	adminMachineHandler := handler.NewAdminMachineHandler(machineRepo, miningRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.PATCH("/change-pay-password", authMw, authHandler.ChangePayPassword)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", userHandler.GetProfile)
			me.PATCH("/profile", userHandler.UpdateProfile)
			me.GET("/balance", userHandler.GetBalance)
			me.GET("/dashboard", userHandler.GetDashboard)
			me.GET("/referrals", userHandler.GetReferrals)
			me.GET("/deposit-address", walletHandler.GetDepositAddress)
			me.POST("/verify/telegram", verifyHandler.RequestCode)
			me.POST("/verify/telegram/confirm", verifyHandler.ConfirmCode)
		}

		miningGroup := api.Group("/mining")
		miningGroup.Use(authMw)
		{
			miningGroup.GET("/machines", miningHandler.ListMachines)
			miningGroup.POST("/purchase", miningHandler.Purchase)
			miningGroup.GET("/active", miningHandler.ListActive)
			miningGroup.GET("/history", miningHandler.History)
			miningGroup.POST("/stop/:id", miningHandler.Stop)
			miningGroup.POST("/stop-all", miningHandler.StopAll)
		}

		investGroup := api.Group("/investments")
		investGroup.Use(authMw)
		{
			investGroup.GET("/plans", financeHandler.ListPlans)
			investGroup.POST("", financeHandler.Invest)
			investGroup.GET("", financeHandler.ListInvestments)
			investGroup.GET("/history", financeHandler.InvestmentHistory)
		}

		vipGroup := api.Group("/vip")
		vipGroup.Use(authMw)
		{
			vipGroup.GET("", userHandler.GetVIPInfo)
			vipGroup.POST("/upgrade", vipHandler.Upgrade)
		}

		api.POST("/withdrawals", authMw, financeHandler.Withdraw)
		api.GET("/transactions", authMw, financeHandler.ListTransactions)

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.POST("/users/:id/balance", adminHandler.AdjustBalance)
			admin.PATCH("/users/:id/status", adminHandler.SetUserStatus)
			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.PATCH("/withdrawals/:id", adminHandler.ResolveWithdrawal)
			admin.POST("/investments/settle", adminHandler.SettleInvestments)
			admin.GET("/machines", adminMachineHandler.List)
			admin.POST("/machines", adminMachineHandler.Create)
			admin.PATCH("/machines/:id", adminMachineHandler.Update)
		}
	}

	return r
}
