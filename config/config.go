package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mihretab/staybook/internal/chapa"
	"github.com/mihretab/staybook/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

func LoadChapaConfig() (*chapa.Config, error) {
	cfg := &chapa.Config{
		SecretKey:     os.Getenv("CHAPA_SECRET_KEY"),
		WebhookSecret: os.Getenv("CHAPA_WEBHOOK_SECRET"),
		BaseURL:       os.Getenv("CHAPA_API_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = chapa.DefaultBaseURL
	}
	return cfg, nil
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func LoadMailConfig() (*MailConfig, error) {
	port := 587
	if portStr := os.Getenv("EMAIL_PORT"); portStr != "" {
		parsed, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid EMAIL_PORT: %v", err)
		}
		port = parsed
	}

	cfg := &MailConfig{
		Host:     os.Getenv("EMAIL_HOST"),
		Port:     port,
		Username: os.Getenv("EMAIL_HOST_USER"),
		Password: os.Getenv("EMAIL_HOST_PASSWORD"),
		From:     os.Getenv("EMAIL_FROM"),
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Booking{}, &models.Review{}, &models.Payment{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
