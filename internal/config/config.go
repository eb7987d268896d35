package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string
	JWTTTL    time.Duration

	OxapayMerchantKey  string
	OxapayBaseURL      string
	OxapayCallbackURL  string
	GatewayTimeout     time.Duration
	KavenegarAPIKey    string
	KavenegarTemplate  string
	CORSAllowedOrigins []string

	ReconcileInterval   time.Duration
	ReconcileStaleAfter time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: getEnv("APP_PORT", "8000"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getDuration("JWT_TTL", 60*time.Minute),

		OxapayMerchantKey:  os.Getenv("OXAPAY_MERCHANT_API_KEY"),
		OxapayBaseURL:      getEnv("OXAPAY_BASE_URL", "https://api.oxapay.com"),
		OxapayCallbackURL:  getEnv("OXAPAY_CALLBACK_URL", "http://127.0.0.1:8000/payments/callback/"),
		GatewayTimeout:     getDuration("GATEWAY_TIMEOUT", 10*time.Second),
		KavenegarAPIKey:    os.Getenv("KAVENEGAR_API_KEY"),
		KavenegarTemplate:  os.Getenv("KAVENEGAR_TEMPLATE"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		ReconcileInterval:   getDuration("RECONCILE_INTERVAL", 0),
		ReconcileStaleAfter: getDuration("RECONCILE_STALE_AFTER", 70*time.Minute),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("10s", "70m"). Invalid values fall back.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
