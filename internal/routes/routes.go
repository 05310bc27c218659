package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/oficina-maquinas/internal/audit"
	"github.com/BruksfildServices01/oficina-maquinas/internal/config"
	domain "github.com/BruksfildServices01/oficina-maquinas/internal/domain/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/handlers"
	"github.com/BruksfildServices01/oficina-maquinas/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/oficina-maquinas/internal/usecase/catalog"
	"github.com/BruksfildServices01/oficina-maquinas/internal/validators"
)

type Deps struct {
	Config *config.Config
	Log    *zap.Logger

	Repo  domain.Repository
	Audit *audit.Dispatcher

	// opcionais
	DB     *gorm.DB
	Backup handlers.SnapshotExporter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	validators.Register()

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	clientsUC := ucCatalog.NewClients(d.Repo, d.Audit)
	machinesUC := ucCatalog.NewMachines(d.Repo, d.Audit)
	partsUC := ucCatalog.NewParts(d.Repo, d.Audit)
	seedUC := ucCatalog.NewSeedDemoData(d.Repo, d.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Config)
	meHandler := handlers.NewMeHandler()

	clientHandler := handlers.NewClientHandler(clientsUC, machinesUC)
	machineHandler := handlers.NewMachineHandler(machinesUC, partsUC)
	partHandler := handlers.NewPartHandler(partsUC)
	adminHandler := handlers.NewAdminHandler(seedUC, d.Backup)

	// ======================================================
	// 🩺 OPERAÇÃO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CLIENTES
			// ------------------------------
			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PUT("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", clientHandler.Delete)
			secured.GET("/clients/:id/machines", clientHandler.ListMachines)
			secured.POST("/clients/:id/machines", clientHandler.CreateMachine)

			// ------------------------------
			// MÁQUINAS
			// ------------------------------
			secured.GET("/machines", machineHandler.List)
			secured.GET("/machines/:id", machineHandler.Get)
			secured.PUT("/machines/:id", machineHandler.Update)
			secured.DELETE("/machines/:id", machineHandler.Delete)
			secured.GET("/machines/:id/parts", machineHandler.ListParts)
			secured.POST("/machines/:id/parts", machineHandler.CreatePart)

			// ------------------------------
			// PEÇAS
			// ------------------------------
			secured.GET("/parts", partHandler.List)
			secured.GET("/parts/:id", partHandler.Get)
			secured.PUT("/parts/:id", partHandler.Update)
			secured.DELETE("/parts/:id", partHandler.Delete)

			// ------------------------------
			// ADMIN
			// ------------------------------
			secured.POST("/admin/seed", adminHandler.Seed)
			secured.POST("/admin/backup", adminHandler.Backup)

			if d.DB != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Config.Timezone)
				secured.GET("/admin/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
