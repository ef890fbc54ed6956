package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	BaseURL     string
	DatabaseDSN string

	AccessSecret string

	// domain gate for student accounts, e.g. "@vu.edu.pk"
	EmailDomain string

	// seeded admin account
	AdminUsername string
	AdminFullName string
	AdminEmail    string
	AdminPassword string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	cfg := Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		BaseURL:       os.Getenv("BASE_URL"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		AccessSecret:  os.Getenv("ACCESS_SECRET"),
		EmailDomain:   os.Getenv("EMAIL_DOMAIN"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminFullName: os.Getenv("ADMIN_FULL_NAME"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:  os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		MailFromName:  os.Getenv("MAIL_FROM_NAME"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = ":3000"
	}
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = "@vu.edu.pk"
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "portal.mail"
	}
	if cfg.KafkaGroupID == "" {
		cfg.KafkaGroupID = "mail-worker"
	}
	if cfg.MailFromName == "" {
		cfg.MailFromName = "Campus Portal"
	}

	return cfg
}
