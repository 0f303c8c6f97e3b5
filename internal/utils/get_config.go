package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	Port         string `yaml:"PORT"`
	LogLevel     string `yaml:"LOG_LEVEL"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`
	CORSOrigins  string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Expiry sweeper interval, a Go duration string
	SweepInterval string `yaml:"SWEEP_INTERVAL"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

var defaults = map[string]string{
	"PORT":               "8080",
	"LOG_LEVEL":          "info",
	"RATE_LIMIT_MAX":     "20",
	"DB_SSLMODE":         "disable",
	"SWEEP_INTERVAL":     "60s",
	"CORS_ALLOW_ORIGINS": "*",
}

// LoadConfig reads config.yaml, then .env. Variables present in the process
// environment win over both.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

func GetConfig(key string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if value := fromFile(key); value != "" {
		return value
	}
	return defaults[key]
}

func GetConfigInt(key string) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		n, _ = strconv.Atoi(defaults[key])
	}
	return n
}

func fromFile(key string) string {
	switch key {
	case "PORT":
		return config.Port
	case "LOG_LEVEL":
		return config.LogLevel
	case "RATE_LIMIT_MAX":
		if config.RateLimitMax > 0 {
			return strconv.Itoa(config.RateLimitMax)
		}
		return ""
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "JWT_SECRET":
		return config.JWTSecret
	case "SWEEP_INTERVAL":
		return config.SweepInterval
	case "CORS_ALLOW_ORIGINS":
		return config.CORSOrigins
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}
