package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL        string
	SocketURL         string
	PaymentAPIURL     string
	PaymentPublicKey  string
	JitsiBaseURL      string
	StorePath         string
	StoreSecret       string
	SessionTTLMinutes int
	PollInterval      time.Duration
	CallBudget        time.Duration
	AppEnv            string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	storeSecret, exists := os.LookupEnv("STORE_SECRET")
	if !exists || storeSecret == "" {
		return nil, fmt.Errorf("STORE_SECRET is required")
	}

	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "1440"))
	if err != nil || sessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES")
	}

	pollSeconds, err := strconv.Atoi(getEnv("CHAT_POLL_SECONDS", "2"))
	if err != nil || pollSeconds <= 0 {
		return nil, fmt.Errorf("invalid CHAT_POLL_SECONDS")
	}

	callMinutes, err := strconv.Atoi(getEnv("CALL_BUDGET_MINUTES", "60"))
	if err != nil || callMinutes <= 0 {
		return nil, fmt.Errorf("invalid CALL_BUDGET_MINUTES")
	}

	return &Config{
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:3001/api"),
		SocketURL:         getEnv("SOCKET_URL", "http://localhost:3001"),
		PaymentAPIURL:     getEnv("PAYMENT_API_URL", "https://api.stripe.com/v1"),
		PaymentPublicKey:  getEnv("PAYMENT_PUBLISHABLE_KEY", ""),
		JitsiBaseURL:      getEnv("JITSI_BASE_URL", "https://meet.jit.si"),
		StorePath:         getEnv("STORE_PATH", "./data/session.db"),
		StoreSecret:       storeSecret,
		SessionTTLMinutes: sessionTTL,
		PollInterval:      time.Duration(pollSeconds) * time.Second,
		CallBudget:        time.Duration(callMinutes) * time.Minute,
		AppEnv:            getEnv("APP_ENV", "production"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
