package config

import (
	"log/slog"
	"os"

	"github.com/amrelsaid4/Restaurant/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Stripe holds the payment processor credentials read once at startup and
// injected into the checkout components.
type Stripe struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	SuccessURL     string
	CancelURL      string
}

func MustInit() {
	if err := godotenv.Load("./.env"); err != nil {
		panic("error while loading .env file: " + err.Error())
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/restaurant")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func SetupLogger() {
	handler := logger.NewHandler(nil)
	log := slog.New(handler)
	slog.SetDefault(log)
}

// MustStripe builds the Stripe configuration. The secret key is required;
// everything else has a sensible default.
func MustStripe() Stripe {
	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		panic("STRIPE_SECRET_KEY is not set")
	}

	cfg := Stripe{
		SecretKey:      secretKey,
		PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:     viper.GetString("stripe.success_url"),
		CancelURL:      viper.GetString("stripe.cancel_url"),
	}

	if cfg.SuccessURL == "" {
		cfg.SuccessURL = "http://localhost:5173/order-success?session_id={CHECKOUT_SESSION_ID}"
	}
	if cfg.CancelURL == "" {
		cfg.CancelURL = "http://localhost:5173/order-cancelled"
	}

	return cfg
}
