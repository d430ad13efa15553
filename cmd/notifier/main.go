package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/grocer-backend/internal/infrastructure/kafka"
	"github.com/example/grocer-backend/internal/notification"
	"github.com/example/grocer-backend/internal/sms"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokersStr := getEnv("KAFKA_BROKERS", "localhost:9092")
	kafkaBrokers := strings.Split(kafkaBrokersStr, ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "grocer-events")
	consumerGroup := "sms-notifier" // Dedicated consumer group for SMS notifications

	twilioSID := os.Getenv("TWILIO_ACCOUNT_SID")
	twilioToken := os.Getenv("TWILIO_AUTH_TOKEN")
	twilioFrom := os.Getenv("TWILIO_FROM_NUMBER")
	ownerPhone := os.Getenv("OWNER_PHONE")

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Grocer Backend - SMS Notification Service")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", kafkaBrokers)
	log.Printf("[Notifier] Topic: %s", kafkaTopic)
	log.Printf("[Notifier] Group: %s", consumerGroup)

	// Fall back to console delivery when Twilio credentials are absent.
	var client sms.Client
	if twilioSID != "" && twilioToken != "" && twilioFrom != "" {
		client = sms.NewTwilioClient(twilioSID, twilioToken, twilioFrom)
		log.Println("[Notifier] SMS delivery: Twilio")
	} else {
		client = sms.NewConsoleClient()
		log.Println("[Notifier] SMS delivery: console (no Twilio credentials)")
	}
	smsSvc := sms.NewService(client)

	// Initialize notification handler
	handler := notification.NewHandler(smsSvc, ownerPhone)

	// Initialize Kafka consumer
	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup)
	defer consumer.Close()

	// Start consuming
	go func() {
		log.Println("[Notifier] Starting event consumer...")
		log.Printf("[Notifier] Listening to topic: %s", kafkaTopic)
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil {
			log.Printf("[Notifier] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
