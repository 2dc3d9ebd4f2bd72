// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"carbonledger/internal/delivery/api/middleware"
	"carbonledger/internal/delivery/api/router/handler"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/infra/storage"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler     *handler.AccountHandler
	ProjectHandler     *handler.ProjectHandler
	ConsumptionHandler *handler.ConsumptionHandler
	ProofHandler       *handler.ProofHandler
	InvestmentHandler  *handler.InvestmentHandler
	StatsHandler       *handler.StatsHandler
	FileHandler        *handler.FileHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler     *handler.AccountHandler
	projectHandler     *handler.ProjectHandler
	consumptionHandler *handler.ConsumptionHandler
	proofHandler       *handler.ProofHandler
	investmentHandler  *handler.InvestmentHandler
	statsHandler       *handler.StatsHandler
	fileHandler        *handler.FileHandler
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:     params.AccountHandler,
		projectHandler:     params.ProjectHandler,
		consumptionHandler: params.ConsumptionHandler,
		proofHandler:       params.ProofHandler,
		investmentHandler:  params.InvestmentHandler,
		statsHandler:       params.StatsHandler,
		fileHandler:        params.FileHandler,
		authMiddleware:     params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET(storage.FilesPath+"*", r.fileHandler.ServeFile)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/company", r.accountHandler.RegisterCompany)
		authGroup.POST("/register/individual", r.accountHandler.RegisterIndividual)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/refresh", r.accountHandler.RefreshToken)
		authGroup.POST("/logout", r.accountHandler.Logout)
	}

	e.GET("/me", r.accountHandler.Me, r.authMiddleware.Authenticate)

	// Public pages
	e.GET("/sdgs", r.projectHandler.ListSDGs)
	e.GET("/leaderboard", r.statsHandler.GetLeaderboard)
	projectsGroup := e.Group("/projects")
	{
		projectsGroup.GET("", r.projectHandler.ListProjects)
		projectsGroup.GET("/map", r.projectHandler.ProjectMap)
		projectsGroup.GET("/:id", r.projectHandler.GetProject)
		projectsGroup.GET("/:id/qr", r.projectHandler.ProjectQRCode)
	}

	// Companies and individuals share the ledger routes under their own prefix
	r.registerOwnerRoutes(e.Group("/company"), entity.RoleCompany)
	r.registerOwnerRoutes(e.Group("/individual"), entity.RoleIndividual)

	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/stats", r.statsHandler.AdminDashboard)
		adminGroup.POST("/leaderboard/recalculate", r.statsHandler.RecalculateLeaderboard)

		adminGroup.GET("/payment-proofs", r.proofHandler.ListProofs)
		adminGroup.GET("/payment-proofs/:id", r.proofHandler.GetProof)
		adminGroup.PUT("/payment-proofs/:id/status", r.proofHandler.UpdateProofStatus)
		adminGroup.PUT("/payment-proofs/:id/sdg", r.proofHandler.AssignSDG)

		adminGroup.GET("/investments", r.investmentHandler.ListInvestments)
		adminGroup.GET("/investments/export", r.investmentHandler.ExportInvestments)

		adminGroup.POST("/projects", r.projectHandler.CreateProject)
		adminGroup.PUT("/projects/:id", r.projectHandler.UpdateProject)
		adminGroup.DELETE("/projects/:id", r.projectHandler.DeleteProject)
		adminGroup.POST("/projects/:id/updates", r.projectHandler.PostUpdate)
		adminGroup.PUT("/projects/:id/display-investment", r.projectHandler.SetDisplayInvestment)
		adminGroup.DELETE("/projects/:id/display-investment", r.projectHandler.ClearDisplayInvestment)
		adminGroup.POST("/projects/:id/notify", r.projectHandler.NotifyFollowers)

		adminGroup.POST("/maintenance/reconcile", r.investmentHandler.Reconcile)
		adminGroup.POST("/maintenance/rebuild-totals", r.investmentHandler.RebuildProjectTotals)
	}
}

func (r *router) registerOwnerRoutes(group *echo.Group, role entity.Role) {
	group.Use(r.authMiddleware.Authenticate)
	group.Use(r.authMiddleware.RequireRole(role))
	group.Use(r.authMiddleware.RequireOwner)

	group.GET("/stats", r.statsHandler.OwnerStats)

	group.POST("/consumption", r.consumptionHandler.CreateRecord)
	group.GET("/consumption", r.consumptionHandler.ListRecords)
	group.GET("/consumption/:id", r.consumptionHandler.GetRecord)

	group.POST("/payment-proofs", r.proofHandler.UploadProof)
	group.GET("/payment-proofs", r.proofHandler.ListOwnerProofs)

	group.GET("/investments", r.investmentHandler.ListOwnerInvestments)
}
