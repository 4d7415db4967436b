package main

import (
	"io"
	"log"
	"os"

	"github.com/scenictrip/backend/internal/config"
	"github.com/scenictrip/backend/internal/logging"
	miniostore "github.com/scenictrip/backend/internal/repository/minio"
	"github.com/scenictrip/backend/internal/repository/ports"
	"github.com/scenictrip/backend/internal/repository/postgres"
	"github.com/scenictrip/backend/internal/repository/rediscache"
	"github.com/scenictrip/backend/internal/service"
	transport "github.com/scenictrip/backend/internal/transport/http"
	"github.com/scenictrip/backend/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	attractionRepo := postgres.NewAttractionRepo(db)
	ticketRepo := postgres.NewTicketRepo(db)
	reservationRepo := postgres.NewReservationRepo(db)
	engagementRepo := postgres.NewEngagementRepo(db)
	favoriteRepo := postgres.NewFavoriteRepo(db)
	userRepo := postgres.NewUserRepo(db)

	redisClient := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if cfg.RedisAddr != "" && redisClient == nil {
		log.Printf("Warning: redis unreachable at %s, caching disabled", cfg.RedisAddr)
	}
	cache := rediscache.NewAttractionCache(redisClient, cfg.CacheTTL)

	var storage ports.ObjectStorage
	if cfg.MinIOEndpoint != "" {
		client, err := miniostore.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Printf("Warning: minio disabled: %v", err)
		} else {
			storage = miniostore.NewStorage(client, cfg.MinIOPublicURL)
		}
	}

	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, tokens)
	attractionService := service.NewAttractionService(attractionRepo, cache, storage, cfg.MinIOBucketImage)
	ticketService := service.NewTicketService(ticketRepo, attractionRepo, cache)
	reservationService := service.NewReservationService(reservationRepo, cache)
	engagementService := service.NewEngagementService(engagementRepo, cache)
	favoriteService := service.NewFavoriteService(favoriteRepo, attractionRepo, cache)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterAuth(e, authService)
	transport.RegisterAttractions(e, authService, attractionService, ticketService)
	transport.RegisterTickets(e, authService, ticketService)
	transport.RegisterEngagement(e, authService, engagementService)
	transport.RegisterFavorites(e, authService, favoriteService)
	transport.RegisterReservations(e, authService, reservationService)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
