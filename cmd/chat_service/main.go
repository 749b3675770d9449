package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"chatterbox_service/internal/api/handlers"
	"chatterbox_service/internal/api/router"
	chatapp "chatterbox_service/internal/chat/app"
	chatrepository "chatterbox_service/internal/chat/repository"
	userapp "chatterbox_service/internal/user/app"
	userdomain "chatterbox_service/internal/user/domain"
	userrepository "chatterbox_service/internal/user/repository"
	"chatterbox_service/pkg/config"
	"chatterbox_service/pkg/database"
	"chatterbox_service/pkg/logger"
	testtool "chatterbox_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)
	testtool.StartPprof()

	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval),
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	sessionRepo := database.NewRedisRepository[userdomain.UserSession](redisClient)

	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minIO err : %v", err))
	}

	userRepo := userrepository.NewMongoUserRepository(mongo.Database)
	convRepo := chatrepository.NewMongoConversationRepository(mongo.Database)
	msgRepo := chatrepository.NewMongoMessageRepository(mongo.Database)

	for name, ensure := range map[string]func(context.Context) error{
		"users":         userRepo.EnsureIndexes,
		"conversations": convRepo.EnsureIndexes,
		"messages":      msgRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Log.Fatal(fmt.Sprintf("ensure %s indexes err : %v", name, err))
		}
	}

	userUC := userapp.NewUserUseCase(userRepo, cfg.SessionTTL, sessionRepo)
	convUC := chatapp.NewConversationUseCase(convRepo, msgRepo, userRepo)
	msgUC := chatapp.NewMessageUseCase(convUC, msgRepo, userRepo)
	mediaUC := chatapp.NewMediaUseCase(minioClient)

	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		handlers.NewUserHandler(userUC),
		handlers.NewChatHandler(msgUC, convUC, mediaUC))

	port := ":" + cfg.Port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
