package main

import (
	"context"
	"log"

	"github.com/krishilink/krishilink-backend/config"
	"github.com/krishilink/krishilink-backend/internal/auth"
	"github.com/krishilink/krishilink-backend/internal/bootstrap"
	"github.com/krishilink/krishilink-backend/internal/cache"
	productsrepo "github.com/krishilink/krishilink-backend/internal/products/repository"
)

const serviceName = "krishilink-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	authClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	mongoClient, err := bootstrap.OpenMongo(ctx, bootstrap.MongoOptions{URI: cfg.Mongo.URI})
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)
	log.Println("connected to MongoDB")

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, running without latest cache: %v", err)
		redisClient = nil
	}

	latest := cache.NewLatestProducts(redisClient, cfg.Cache.LatestTTL)
	if redisClient != nil {
		warmer := cache.NewWarmer(latest, productsrepo.NewRepo(db), 6)
		if err := warmer.Start(cfg.Cache.WarmSchedule); err != nil {
			log.Printf("cache warmer: %v", err)
		}
		defer warmer.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Mongo:       mongoClient,
		DB:          db,
		Redis:       redisClient,
		Verifier:    authClient,
		Latest:      latest,
	})

	log.Printf("server is running on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
