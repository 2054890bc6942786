// Package main wires the gallery CRUD service together and runs the HTTP server
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galeriseni/gambar/internal/kafka"
	"github.com/galeriseni/gambar/internal/mwlogger"
	"github.com/galeriseni/gambar/internal/repository"
	"github.com/galeriseni/gambar/internal/service"
	"github.com/galeriseni/gambar/internal/storage"
	"github.com/galeriseni/gambar/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// config / envs
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// logger
	zlog.InitConsole()
	err := zlog.SetLevel("info")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// interrupt-aware context for the whole app
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB + migrations
	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	repository.MigrateWithRetries(dbConn.Master, "./migrations", 10, 15*time.Second)

	// object storage
	strg := storage.NewImgStorage(appConfig, 10*time.Second)
	repo := repository.NewPostgresImageRepo(dbConn)

	// kafka producer for lifecycle events
	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(broker)
	topic := appConfig.GetString("KAFKA_TOPIC")
	kafka.InitKafkaTopics(ctx, broker, 10*time.Second, topic)
	pub := wbfkafka.NewProducer([]string{broker}, topic)

	var svc ImageAPIService = service.NewImageService(repo, pub, strg)
	handlers := transport.NewImageHandler(svc)

	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/gambar", handlers.Create)       // upload + metadata insert
	engine.GET("/gambar", handlers.GetAllImages)  // non-deleted records
	engine.GET("/gambar/:id", handlers.GetImage)  // single non-deleted record
	engine.PUT("/gambar/:id", handlers.Update)    // title/description only
	engine.DELETE("/gambar/:id", handlers.Delete) // soft delete

	srv := &http.Server{
		Addr:    ":" + appConfig.GetString("APP_PORT"),
		Handler: mwlogger.NewMWLogger(engine),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// background sweeper for stored objects whose insert never landed
	go sweepLoop(ctx, svc)

	// wait for cancellation, then close kafka and DB connections
	<-ctx.Done()

	shutdown(pub, dbConn)
	log.Println("Exiting app...")
}

func sweepLoop(ctx context.Context, svc ImageAPIService) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Sweep loop crashed:", r)
		}
	}()

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepOrphans(context.Background(), 30*time.Minute)
		}
	}
}

func shutdown(pub *wbfkafka.Producer, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Closing Kafka connection:
	if err := pub.Close(); err != nil {
		log.Println("Failed to close Kafka-producer:", err)
	}
	log.Println("Kafka-producer connection closed.")

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
