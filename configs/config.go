package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
)

const (
	StateModeSigned = "signed"
	StateModeServer = "server"
	StateModePlain  = "plain"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Facebook struct {
	AppID       string
	AppSecret   string
	GraphURL    string
	DialogURL   string
	APIVersion  string
	RedirectURI string
}

type Supabase struct {
	ProjectURL string
	ServiceKey string
	JWTSecret  string
}

type Gemini struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

type Config struct {
	AppEnv                 string
	Port                   string
	PublicURL              string
	FrontendURL            string
	AllowedRedirectOrigins []string
	DatabaseDriver         string
	PostgresURI            string
	RedisURI               string
	Supabase               Supabase
	Facebook               Facebook
	Gemini                 Gemini
	R2                     R2
	StateMode              string
	StateSecret            string
	TokenEncryptionKey     string
	SimulatedProviders     bool
	HTTPTimeout            time.Duration
	GenerationRatePerMin   int
	CookieName             string
}

func LoadConfig() *Config {
	publicURL := strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:3000"), "/")
	frontendURL := strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/")

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", EnvDevelopment),
		Port:           getEnv("PORT", "3000"),
		PublicURL:      publicURL,
		FrontendURL:    frontendURL,
		DatabaseDriver: getEnv("DATABASE_DRIVER", DriverPostgres),
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		RedisURI:       getEnv("REDIS_URI", ""),
		Supabase: Supabase{
			ProjectURL: getEnv("SUPABASE_URL", ""),
			ServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			JWTSecret:  getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Facebook: Facebook{
			AppID:       getEnv("FACEBOOK_APP_ID", ""),
			AppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
			GraphURL:    getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"),
			DialogURL:   getEnv("FACEBOOK_DIALOG_URL", "https://www.facebook.com"),
			APIVersion:  getEnv("FACEBOOK_API_VERSION", "v18.0"),
			RedirectURI: getEnv("FACEBOOK_REDIRECT_URI", publicURL+"/oauth/facebook/callback"),
		},
		Gemini: Gemini{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
			Endpoint: getEnv("GEMINI_ENDPOINT", ""),
			Timeout:  getDuration("GENERATION_TIMEOUT", 30*time.Second),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/"),
		},
		StateMode:            getEnv("OAUTH_STATE_MODE", StateModeSigned),
		StateSecret:          getEnv("OAUTH_STATE_SECRET", ""),
		TokenEncryptionKey:   getEnv("TOKEN_ENCRYPTION_KEY", ""),
		SimulatedProviders:   getBool("SIMULATED_PROVIDERS", false),
		HTTPTimeout:          getDuration("HTTP_TIMEOUT", 20*time.Second),
		GenerationRatePerMin: getInt("GENERATION_RATE_PER_MIN", 10),
		CookieName:           getEnv("COOKIE_NAME", "sb-access-token"),
	}

	origins := getEnv("ALLOWED_REDIRECT_ORIGINS", "")
	if origins == "" {
		cfg.AllowedRedirectOrigins = []string{frontendURL}
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
				cfg.AllowedRedirectOrigins = append(cfg.AllowedRedirectOrigins, o)
			}
		}
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) FacebookEnabled() bool {
	return c.Facebook.AppID != "" && c.Facebook.AppSecret != ""
}

// Validate reports configuration that must stop the process at startup.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.PostgresURI == "" {
			errs = append(errs, errors.New("POSTGRES_URI is required for the postgres driver"))
		}
	case DriverSupabase:
		if c.Supabase.ProjectURL == "" || c.Supabase.ServiceKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.StateMode {
	case StateModeSigned:
		if c.StateSecret == "" {
			errs = append(errs, errors.New("OAUTH_STATE_SECRET is required for signed state"))
		}
	case StateModeServer:
		if c.RedisURI == "" {
			errs = append(errs, errors.New("REDIS_URI is required for server-side state"))
		}
	case StateModePlain:
		if c.IsProduction() {
			errs = append(errs, errors.New("plain OAuth state is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown OAUTH_STATE_MODE %q", c.StateMode))
	}

	if c.FacebookEnabled() {
		switch len(c.TokenEncryptionKey) {
		case 16, 24, 32:
		default:
			errs = append(errs, errors.New("TOKEN_ENCRYPTION_KEY must be 16, 24 or 32 bytes"))
		}
	}

	if c.IsProduction() {
		if !c.FacebookEnabled() {
			errs = append(errs, errors.New("FACEBOOK_APP_ID and FACEBOOK_APP_SECRET are required in production"))
		}
		if c.SimulatedProviders {
			errs = append(errs, errors.New("SIMULATED_PROVIDERS must be disabled in production"))
		}
		if c.Supabase.JWTSecret == "" {
			errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required in production"))
		}
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
