package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"seva-donation-platform/pkg/config"
	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/pkg/queue"

	"github.com/golang-jwt/jwt/v5"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DonationEvent mirrors the payload published by the donation service.
type DonationEvent struct {
	Type       string    `json:"type"` // donation_created, status_update
	DonationID string    `json:"donation_id"`
	DonorID    string    `json:"donor_id"`
	DonorName  string    `json:"donor_name"`
	NGOName    string    `json:"ngo_name"`
	NGOEmail   string    `json:"ngo_email,omitempty"`
	FoodType   string    `json:"food_type,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Client struct {
	UserID string
	Role   string
	Send   chan DonationEvent
}

var (
	clients    = make(map[*Client]bool)
	broadcast  = make(chan DonationEvent, 100)
	register   = make(chan *Client)
	unregister = make(chan *Client)
	mu         sync.RWMutex
)

func validateToken(tokenString string) (*middleware.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.JWTSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*middleware.UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

func main() {
	config.Load()

	conn, ch, err := queue.ConnectRabbitMQ(config.AMQPURI())
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()
	log.Println("[OK] Connected to RabbitMQ")

	if err := queue.DeclareDonationsExchange(ch); err != nil {
		log.Fatalf("[ERROR] Failed to declare exchange: %v", err)
	}

	queueName, err := queue.BindQueue(ch, "notifications", queue.KeyDonationCreated, queue.KeyDonationUpdated)
	if err != nil {
		log.Fatalf("[ERROR] Failed to bind queue: %v", err)
	}

	log.Println("[INFO] Listening to notifications queue")

	middleware.RegisterMetrics()

	go consumeMessages(ch, queueName)
	go handleClients()

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/health", healthHandler)
	apiMux.Handle("/metrics", middleware.GetMetricsHandler())

	apiHandler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(apiMux),
		),
	)

	rootMux := http.NewServeMux()
	rootMux.Handle("/notifications/subscribe", middleware.TraceMiddleware(http.HandlerFunc(subscribeHandler)))
	rootMux.Handle("/subscribe", middleware.TraceMiddleware(http.HandlerFunc(subscribeHandler)))
	rootMux.Handle("/", apiHandler)

	port := config.GetEnv("NOTIFICATION_PORT", "8084")

	log.Printf("[INFO] Notification Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, rootMux); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

// consumeMessages pulls donation events off the queue, emails the NGO on new
// donations, and forwards every event to connected SSE clients.
func consumeMessages(ch *amqp.Channel, queueName string) {
	msgs, err := queue.ConsumeMessages(ch, queueName)
	if err != nil {
		log.Fatalf("[ERROR] Failed to register consumer: %v", err)
	}

	for d := range msgs {
		var event DonationEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("[WARN] Failed to parse notification: %v", err)
			continue
		}

		log.Printf("[OK] Notification received - Donation: %s, Type: %s, Status: %s", event.DonationID, event.Type, event.Status)

		if event.Type == "donation_created" && event.NGOEmail != "" {
			body := newDonationEmailBody(event.DonorName, event.NGOName, event.FoodType, event.Quantity)
			if err := sendEmail(event.NGOName, event.NGOEmail, "New food donation pledged", body); err != nil {
				log.Printf("[WARN] Failed to email NGO: %v", err)
			}
		}

		broadcast <- event
	}
}

// handleClients owns the client set and the fan-out rules: donors see events
// for their own donations, admins see everything.
func handleClients() {
	for {
		select {
		case client := <-register:
			mu.Lock()
			clients[client] = true
			mu.Unlock()
			log.Printf("[INFO] Client registered - UserID: %s (Total clients: %d)", client.UserID, len(clients))

		case client := <-unregister:
			mu.Lock()
			if _, ok := clients[client]; ok {
				delete(clients, client)
				close(client.Send)
			}
			mu.Unlock()
			log.Printf("[INFO] Client unregistered - UserID: %s (Total clients: %d)", client.UserID, len(clients))

		case event := <-broadcast:
			mu.RLock()
			for client := range clients {
				// Admins see everything, donors only their own donations.
				if client.Role != string(middleware.RoleAdmin) && client.UserID != event.DonorID {
					continue
				}

				select {
				case client.Send <- event:
				default:
					// Client's send channel is full, skip
				}
			}
			mu.RUnlock()
		}
	}
}

// SSE Handler for client subscriptions
func subscribeHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := validateToken(tokenString)
	if err != nil {
		log.Printf("[WARN] Invalid token attempt: %v", err)
		http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	client := &Client{
		UserID: claims.UserID,
		Role:   claims.Role,
		Send:   make(chan DonationEvent, 10),
	}

	register <- client
	defer func() {
		unregister <- client
	}()

	fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected","message":"Connection established"}`)
	w.(http.Flusher).Flush()

	for event := range client.Send {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "data: %s\n\n", string(data))
		w.(http.Flusher).Flush()
	}
}

// Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	mu.RLock()
	connectedClients := len(clients)
	mu.RUnlock()

	health := map[string]interface{}{
		"status":            "UP",
		"service":           "notification-service",
		"connected_clients": connectedClients,
	}

	json.NewEncoder(w).Encode(health)
}
