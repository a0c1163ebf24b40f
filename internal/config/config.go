package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/rentowl/backend/internal/utils"
)

type Config struct {
	AppName string
	AppPort string
	Env     string

	// Database
	DBUrl string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// Twilio / SendGrid for payment reminders
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromPhone   string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridSandbox   bool

	// M-Pesa Daraja
	DarajaConsumerKey    string
	DarajaConsumerSecret string
	DarajaShortCode      string
	DarajaPasskey        string
	DarajaEnvironment    string
	DarajaCallbackURL    string

	CORSAllowedOrigins []string

	// Flags (LaunchDarkly when LD_SDK_KEY is set, env fallback otherwise)
	SeedDBWithTestData bool
	RemindersEnabled   bool
}

const LDConnectionTimeout = 5 * time.Second

func LoadConfig() *Config {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file found, using process environment")
	}

	cfg := &Config{
		AppName: getEnvOr("APP_NAME", "rentowl-backend"),
		AppPort: getEnvOr("APP_PORT", "8080"),
		Env:     getEnvOr("ENV", "dev"),
	}
	utils.Logger.Info("Loading config for app: ", cfg.AppName)

	cfg.DBUrl = mustEnv("DB_URL")

	pubB64 := mustEnv("RSA_PUBLIC_KEY_BASE64")
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for public key")
	}
	cfg.RSAPublicKey, err = jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	// Reminder channels are optional in dev; the reminder service skips
	// a channel whose client is nil.
	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")

	cfg.DarajaConsumerKey = mustEnv("DARAJA_CONSUMER_KEY")
	cfg.DarajaConsumerSecret = mustEnv("DARAJA_CONSUMER_SECRET")
	cfg.DarajaShortCode = mustEnv("DARAJA_SHORT_CODE")
	cfg.DarajaPasskey = mustEnv("DARAJA_PASSKEY")
	cfg.DarajaEnvironment = getEnvOr("DARAJA_ENVIRONMENT", "sandbox")
	cfg.DarajaCallbackURL = mustEnv("DARAJA_CALLBACK_URL")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
	}

	loadFlags(cfg)
	return cfg
}

// loadFlags resolves runtime flags from LaunchDarkly when an SDK key is
// configured, falling back to plain env vars otherwise so local and CI
// runs need no LD account.
func loadFlags(cfg *Config) {
	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set, resolving flags from environment")
		cfg.SeedDBWithTestData = envBool("SEED_DB_WITH_TEST_DATA")
		cfg.RemindersEnabled = envBool("PAYMENT_REMINDERS_ENABLED")
		cfg.TwilioFromPhone = getEnvOr("TWILIO_FROM_PHONE", "+10005550006")
		cfg.SendGridFromEmail = getEnvOr("SENDGRID_FROM_EMAIL", "no-reply@rentowl.app")
		cfg.SendGridSandbox = envBool("SENDGRID_SANDBOX_MODE")
		return
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind("service", cfg.AppName)

	cfg.SeedDBWithTestData, err = ldClient.BoolVariation("seed_db_with_test_data", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving seed_db_with_test_data flag")
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", cfg.SeedDBWithTestData)

	cfg.RemindersEnabled, err = ldClient.BoolVariation("payment_reminders_enabled", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving payment_reminders_enabled flag")
	}
	utils.Logger.Debugf("payment_reminders_enabled flag: %t", cfg.RemindersEnabled)

	cfg.TwilioFromPhone, err = ldClient.StringVariation("twilio_from_phone", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving twilio_from_phone flag")
	}
	if cfg.TwilioFromPhone == "" {
		utils.Logger.Warn("twilio_from_phone flag is empty, defaulting to +10005550006")
		cfg.TwilioFromPhone = "+10005550006"
	}

	cfg.SendGridFromEmail, err = ldClient.StringVariation("sendgrid_from_email", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_from_email flag")
	}
	if cfg.SendGridFromEmail == "" {
		utils.Logger.Warn("sendgrid_from_email flag is empty, defaulting to no-reply@rentowl.app")
		cfg.SendGridFromEmail = "no-reply@rentowl.app"
	}

	cfg.SendGridSandbox, err = ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_sandbox_mode flag")
	}
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
