package main

import (
	"encoding/json"
	"log"
	"net/http"

	"seva-donation-platform/pkg/config"
	"seva-donation-platform/pkg/database"
	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/pkg/queue"
	"seva-donation-platform/pkg/storage"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	db          *mongo.Database
	amqpChannel *amqp.Channel
	images      *storage.ImageStore
)

func main() {
	config.Load()

	var err error
	db, err = database.ConnectMongo(config.MongoURI(), config.GetEnv("MONGO_DB", "seva_db"))
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to MongoDB: %v", err)
	}

	conn, ch, err := queue.ConnectRabbitMQ(config.AMQPURI())
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()
	amqpChannel = ch
	log.Println("[OK] Connected to RabbitMQ")

	images, err = storage.NewImageStore(
		config.GetEnv("MINIO_ENDPOINT", "localhost:9000"),
		config.GetEnv("MINIO_ACCESS_KEY", "minioadmin"),
		config.GetEnv("MINIO_SECRET_KEY", "minioadmin"),
		config.GetEnv("MINIO_BUCKET", "ngo-images"),
		config.GetEnvBool("MINIO_USE_SSL", false),
	)
	if err != nil {
		// Image uploads degrade to 503; everything else keeps working.
		log.Printf("[WARN] MinIO unavailable, NGO image uploads disabled: %v", err)
		images = nil
	} else {
		log.Println("[OK] Connected to MinIO")
	}

	middleware.RegisterMetrics()

	http.HandleFunc("/api/ngos", wrap(http.HandlerFunc(ngosHandler)))
	http.HandleFunc("/api/ngos/", wrap(http.HandlerFunc(ngoDetailHandler)))
	http.HandleFunc("/api/donations", wrap(middleware.AuthMiddleware(donationsHandler)))
	http.HandleFunc("/api/donations/", wrap(middleware.AuthMiddleware(donationDetailHandler)))

	http.HandleFunc("/health", healthCheckHandler)
	http.Handle("/metrics", middleware.GetMetricsHandler())

	port := ":" + config.GetEnv("DONATION_PORT", "8082")
	log.Printf("[INFO] Donation Service running on port %s", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func wrap(h http.Handler) func(http.ResponseWriter, *http.Request) {
	return middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(h),
		),
	).ServeHTTP
}

// publishEvent fires a lifecycle event. The record is already persisted, so a
// publish failure is logged and swallowed.
func publishEvent(routingKey string, event interface{}) {
	if amqpChannel == nil {
		log.Printf("[WARN] No message broker channel, dropping event %s", routingKey)
		return
	}
	if err := queue.PublishEvent(amqpChannel, routingKey, event); err != nil {
		log.Printf("[WARN] Failed to publish event: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "UP",
		"service": "donation-service",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
