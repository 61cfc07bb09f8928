package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string

	RedisAddr string
	RedisDB   int

	ServerPort  int
	SessionTTL  time.Duration
	CORSOrigins []string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	neo4jURI := os.Getenv("NEO4J_URI")
	if neo4jURI == "" {
		return nil, fmt.Errorf("NEO4J_URI environment variable is not set")
	}
	neo4jUser := os.Getenv("NEO4J_USERNAME")
	if neo4jUser == "" {
		return nil, fmt.Errorf("NEO4J_USERNAME environment variable is not set")
	}
	neo4jPassword := os.Getenv("NEO4J_PASSWORD")
	if neo4jPassword == "" {
		return nil, fmt.Errorf("NEO4J_PASSWORD environment variable is not set")
	}

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB environment variable: %w", err)
		}
		redisDB = db
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	sessionTTL := time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL environment variable: %w", err)
		}
		sessionTTL = ttl
	}

	corsOrigins := []string{"*"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		corsOrigins = corsOrigins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Neo4jURI:      neo4jURI,
		Neo4jUsername: neo4jUser,
		Neo4jPassword: neo4jPassword,
		RedisAddr:     redisHost + ":" + redisPort,
		RedisDB:       redisDB,
		ServerPort:    port,
		SessionTTL:    sessionTTL,
		CORSOrigins:   corsOrigins,
	}

	return cfg, nil
}
