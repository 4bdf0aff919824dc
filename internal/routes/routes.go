package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/cache"
	"github.com/BruksfildServices01/supplier-directory/internal/config"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	"github.com/BruksfildServices01/supplier-directory/internal/handlers"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/supplier-directory/internal/infra/repository"
	"github.com/BruksfildServices01/supplier-directory/internal/infra/storage"
	"github.com/BruksfildServices01/supplier-directory/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/supplier-directory/internal/usecase/catalog"
	ucCategory "github.com/BruksfildServices01/supplier-directory/internal/usecase/category"
	ucSubscription "github.com/BruksfildServices01/supplier-directory/internal/usecase/subscription"
	ucSupplier "github.com/BruksfildServices01/supplier-directory/internal/usecase/supplier"
)

// Deps reúne a infraestrutura criada no main. Gateway e Store podem ser nil
// quando o pagamento ou o upload não estão configurados.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Cache   cache.Cache
	Tokens  cache.Denylist
	Audit   audit.Recorder
	Gateway payment.Gateway
	Store   storage.Store
}

// Services expõe o que o main precisa além das rotas (ex.: o sweeper).
type Services struct {
	Sweeper *ucSubscription.ExpirySweeper
}

func RegisterRoutes(r *gin.Engine, deps Deps) Services {
	cfg := deps.Config

	// ======================================================
	// INFRA
	// ======================================================
	catalogRepo := infraRepo.NewCatalogGormRepository(deps.DB)
	accountRepo := infraRepo.NewAccountGormRepository(deps.DB)

	authn := middleware.NewAuthenticator(cfg.JWTSecret, deps.Tokens)

	// ======================================================
	// USE CASES
	// ======================================================
	agg := ucCatalog.NewAggregator(catalogRepo, accountRepo, deps.Cache, cfg.CacheTTL)

	manageCategory := ucCategory.NewManage(catalogRepo, agg, deps.Audit)
	manageSupplier := ucSupplier.NewManage(catalogRepo, deps.Audit)
	rateSupplier := ucSupplier.NewRate(catalogRepo, accountRepo, agg, deps.Audit)

	getSubscription := ucSubscription.NewGet(accountRepo)
	selectCategories := ucSubscription.NewSelectCategories(accountRepo, agg)
	cancelSubscription := ucSubscription.NewCancel(accountRepo, agg, deps.Audit)
	checkout := ucSubscription.NewCheckout(accountRepo, deps.Gateway, agg, deps.Audit)
	confirmPayment := ucSubscription.NewConfirmPayment(accountRepo, deps.Gateway, agg, deps.Audit)
	sweeper := ucSubscription.NewExpirySweeper(accountRepo, agg, deps.Audit, 0)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, cfg, deps.Tokens, deps.Audit, nil)
	catalogHandler := handlers.NewCatalogHandler(agg, accountRepo)
	meHandler := handlers.NewMeHandler(accountRepo, agg)
	subscriptionHandler := handlers.NewSubscriptionHandler(
		getSubscription,
		selectCategories,
		cancelSubscription,
		checkout,
		confirmPayment,
		cfg.MPWebhookSecret,
	)

	categoryHandler := handlers.NewCategoryHandler(manageCategory)
	supplierHandler := handlers.NewSupplierHandler(manageSupplier, rateSupplier)
	highlightHandler := handlers.NewHighlightHandler(deps.DB, deps.Audit)
	adminUsersHandler := handlers.NewAdminUsersHandler(deps.DB, deps.Audit)
	uploadHandler := handlers.NewUploadHandler(deps.Store, deps.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB, cfg.Timezone)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PÚBLICA
		// ------------------------------
		api.GET("/plans", catalogHandler.Plans)
		api.GET("/complaint-tags", catalogHandler.ComplaintTags)
		api.GET("/highlights", catalogHandler.Highlights)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.POST("/webhooks/mercadopago", subscriptionHandler.Webhook)

		// ------------------------------
		// CATÁLOGO (login opcional)
		// ------------------------------
		browse := api.Group("/")
		browse.Use(authn.Optional())
		{
			browse.GET("/categories", catalogHandler.Categories)
			browse.GET("/suppliers", catalogHandler.ListSuppliers)
			browse.GET("/suppliers/:id", catalogHandler.GetSupplier)
			browse.GET("/dashboard", catalogHandler.Dashboard)
		}

		// ------------------------------
		// PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(authn.Required())
		{
			secured.POST("/auth/logout", authHandler.Logout)

			secured.POST("/suppliers/:id/ratings", supplierHandler.Rate)
			secured.DELETE("/suppliers/:id/ratings/me", supplierHandler.RemoveRating)

			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			secured.GET("/me/favorites", meHandler.ListFavorites)
			secured.PUT("/me/favorites/:supplierID", meHandler.AddFavorite)
			secured.DELETE("/me/favorites/:supplierID", meHandler.RemoveFavorite)

			secured.GET("/me/subscription", subscriptionHandler.Get)
			secured.PUT("/me/subscription/categories", subscriptionHandler.SelectCategories)
			secured.POST("/me/subscription/cancel", subscriptionHandler.Cancel)

			secured.POST("/checkout", subscriptionHandler.Checkout)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(authn.Required(), middleware.RequireRole(access.RoleAdmin, access.RoleMaster))
		{
			admin.POST("/categories", categoryHandler.Create)
			admin.PATCH("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			admin.POST("/suppliers", supplierHandler.Create)
			admin.PATCH("/suppliers/:id", supplierHandler.Update)
			admin.DELETE("/suppliers/:id", supplierHandler.Delete)

			admin.POST("/highlights", highlightHandler.Create)
			admin.PATCH("/highlights/:id", highlightHandler.Update)
			admin.DELETE("/highlights/:id", highlightHandler.Delete)

			admin.GET("/users", adminUsersHandler.List)
			admin.PATCH("/users/:id/genius", adminUsersHandler.SetGenius)
			admin.PATCH("/users/:id/role", middleware.RequireRole(access.RoleMaster), adminUsersHandler.SetRole)

			admin.POST("/uploads", uploadHandler.Upload)
			admin.POST("/uploads/presign", uploadHandler.Presign)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return Services{Sweeper: sweeper}
}
