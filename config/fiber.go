package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// GetFiberConfig wires sonic in as the JSON codec. Routing stays
// case-sensitive so /notification and /Notification are distinct paths.
func GetFiberConfig() fiber.Config {
	return fiber.Config{
		AppName:       GetAppName(),
		ServerHeader:  "EDUBOT",
		JSONEncoder:   sonic.Marshal,
		JSONDecoder:   sonic.Unmarshal,
		ReadTimeout:   60 * time.Second,
		CaseSensitive: true,
	}
}

func GetFiberListenAddress() string {
	return fmt.Sprintf("%s:%s", envOr("HTTP_HOST", "0.0.0.0"), GetFiberHttpPort())
}

func GetFiberHttpPort() string {
	return envOr("HTTP_PORT", "8000")
}

func GetAppName() string {
	return envOr("APP_NAME", "EDUBOT")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
