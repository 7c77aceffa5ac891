package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	httpapi "github.com/krishilink/krishilink-backend/internal/api/http"
	"github.com/krishilink/krishilink-backend/internal/api/http/middleware"
	"github.com/krishilink/krishilink-backend/internal/auth"
	"github.com/krishilink/krishilink-backend/internal/cache"
	productshttp "github.com/krishilink/krishilink-backend/internal/products/http"
	productsrepo "github.com/krishilink/krishilink-backend/internal/products/repository"
	usershttp "github.com/krishilink/krishilink-backend/internal/users/http"
	usersrepo "github.com/krishilink/krishilink-backend/internal/users/repository"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Mongo       *mongo.Client
	DB          *mongo.Database
	Redis       *redis.Client
	Verifier    auth.TokenVerifier
	Latest      *cache.LatestProducts
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Mongo, dep.Redis)
	healthHandler.RegisterRoutes(r)

	requireAuth := auth.RequireAuth(dep.Verifier)

	userRepo := usersrepo.NewRepo(dep.DB)
	usershttp.New(userRepo).Register(r, requireAuth)

	productRepo := productsrepo.NewRepo(dep.DB)
	productshttp.New(productRepo, dep.Latest).Register(r, requireAuth)

	return r
}
