package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	ServerPort     string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	OpenWeatherKey string
	UploadDir      string
}

func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		ServerPort:     getEnv("SERVER_PORT", "4000"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "farmnet"),
		DBPassword:     getEnv("DB_PASSWORD", "farmnet_dev_password"),
		DBName:         getEnv("DB_NAME", "farmnet"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		OpenWeatherKey: getEnv("OPENWEATHER_KEY", ""),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
