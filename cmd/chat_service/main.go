package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	chatapp "direct_chat_service/internal/chat/app"
	chatrepo "direct_chat_service/internal/chat/repository"
	chatrouter "direct_chat_service/internal/chat/router"
	identityapp "direct_chat_service/internal/identity/app"
	identitydomain "direct_chat_service/internal/identity/domain"
	identityrepo "direct_chat_service/internal/identity/repository"
	sessionapp "direct_chat_service/internal/session/app"
	sessionrepo "direct_chat_service/internal/session/repository"
	sessionrouter "direct_chat_service/internal/session/router"
	"direct_chat_service/pkg/config"
	"direct_chat_service/pkg/database"
	"direct_chat_service/pkg/logger"
	testtool "direct_chat_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	testtool.StartPprof()

	// Mongo (profile / room / message store)
	ctx := context.Background()
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval) * time.Second,
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// Redis (pub/sub + session cache)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// PostgreSQL (account store)
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pgPool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect postgres err : %v", err))
	}
	defer pgPool.Close()

	// Kafka (presence beacon)
	kafkaConn := database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		GroupID:       cfg.Kafka.GroupID,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval) * time.Second,
	}
	kafkaWriter, err := database.NewKafkaWriterWithRetry(kafkaConn)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect kafka err : %v", err))
	}
	defer kafkaWriter.Close()
	kafkaReader := database.NewKafkaReader(kafkaConn)
	defer kafkaReader.Close()

	// MinIO (avatar storage)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval) * time.Second,
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	// Repository
	accountRepo := identityrepo.NewAccountRepository(pgPool)
	profileRepo := sessionrepo.NewMongoProfileRepository(mongo.Database)
	beacon := sessionrepo.NewKafkaPresenceBeacon(kafkaWriter)
	roomRepo := chatrepo.NewRoomRepository(*mongo)
	msgRepo := chatrepo.NewMessageRepository(*mongo)
	pub := chatrepo.NewRedisPubSub(redisClient)
	sessionCache := database.NewRedisRepository[identitydomain.AccountSession](redisClient)

	// UseCase
	identityUC := identityapp.NewIdentityUseCase(accountRepo, cfg.SessionTTL, sessionCache)
	sessionUC := sessionapp.NewSessionUseCase(identityUC, profileRepo, beacon, minioClient)
	roomUC := chatapp.NewRoomUseCase(roomRepo, profileRepo)
	messageUC := chatapp.NewMessageUseCase(roomRepo, msgRepo, pub)

	// 離線 beacon consumer
	worker := sessionapp.NewOfflineWorker(kafkaReader, profileRepo)
	go worker.Run(ctx)

	// Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// auth 路由不走 JWT, 需先註冊
	sessionrouter.RegisterRoutes(r, sessionapp.NewSessionHandler(sessionUC))
	chatrouter.RegisterRoutes(r, chatapp.NewChatWebsocketHandler(roomUC, messageUC), roomUC)

	port := ":" + cfg.Port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
