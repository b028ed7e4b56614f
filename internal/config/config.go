package config // loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable: strings for identifiers
// and secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	// Payment provider (hosted checkout sessions). Optional: when
	// the secret is empty the checkout endpoint reports the feature
	// as unavailable instead of failing at startup.
	CheckoutAPIURL string // provider session endpoint
	CheckoutSecret string // provider API secret

	// Avatar storage provider. Optional like checkout.
	AvatarUploadURL  string // provider upload endpoint
	AvatarAPIKey     string // provider API key
	AvatarAPISecret  string // provider API secret
	AvatarFolderName string // remote folder for avatar objects
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		CheckoutAPIURL: getenv("CHECKOUT_API_URL", "https://api.stripe.com/v1/checkout/sessions"),
		CheckoutSecret: os.Getenv("CHECKOUT_API_SECRET"),

		AvatarUploadURL:  os.Getenv("AVATAR_UPLOAD_URL"),
		AvatarAPIKey:     os.Getenv("AVATAR_API_KEY"),
		AvatarAPISecret:  os.Getenv("AVATAR_API_SECRET"),
		AvatarFolderName: getenv("AVATAR_FOLDER", "avatars"),
	}
}

// must retrieves the value of a required environment variable. If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
