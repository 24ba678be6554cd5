package main

import (
	"context"
	"log"

	"ticket-ledger/config"
	"ticket-ledger/internal/cache"
	"ticket-ledger/internal/database"
	"ticket-ledger/internal/handler"
	"ticket-ledger/internal/queue"
	"ticket-ledger/internal/repository"
	"ticket-ledger/internal/service"
	"ticket-ledger/internal/settlement"
	"ticket-ledger/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	if err := database.InitSchema(context.Background(), pool); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	listingRepo := repository.NewListingRepository(pool)

	// Collaborators
	statusStore := cache.NewRedisTicketStatusStore(rdb)
	confirmationQueue, err := queue.NewRedisStreamConfirmationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize confirmation queue: %v", err)
	}
	sink := settlement.NewEscrowLedger()

	// Services
	eventService := service.NewEventService(eventRepo)
	ticketService := service.NewTicketService(pool, ticketRepo, eventRepo)
	marketplaceService := service.NewMarketplaceService(pool, listingRepo, ticketRepo, eventRepo, statusStore, sink)
	redemptionService := service.NewRedemptionService(pool, ticketRepo, eventRepo, listingRepo, confirmationQueue, cfg.Platform.AdminWallet)

	// Confirmation worker
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	confirmationWorker := worker.NewConfirmationWorker(statusStore, confirmationQueue)
	if err := confirmationWorker.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start confirmation worker: %v", err)
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService).RegisterRoutes(router)
	handler.NewMarketplaceHandler(marketplaceService).RegisterRoutes(router)
	handler.NewRedemptionHandler(redemptionService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
