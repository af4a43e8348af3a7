package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Meta      Meta      `mapstructure:",squash"`
	TikTok    TikTok    `mapstructure:",squash"`
	GoogleAds GoogleAds `mapstructure:",squash"`
	Currency  Currency  `mapstructure:",squash"`
	Sync      Sync      `mapstructure:",squash"`
	Assets    Assets    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
	// TokenKey is the 64-char hex key used to open connection credentials.
	TokenKey string `mapstructure:"token_encryption_key"`
}

type Meta struct {
	BaseURL  string `mapstructure:"meta_base_url"`
	URL      string `mapstructure:"-"`
	Version  string `mapstructure:"meta_version"`
	PageSize int    `mapstructure:"meta_page_size"`
}

type TikTok struct {
	URL      string `mapstructure:"tiktok_url"`
	PageSize int    `mapstructure:"tiktok_page_size"`
}

type GoogleAds struct {
	URL            string `mapstructure:"google_ads_url"`
	DeveloperToken string `mapstructure:"google_developer_token"`
	OAuthTokenURL  string `mapstructure:"google_oauth_token_url"`
	ClientID       string `mapstructure:"google_client_id"`
	ClientSecret   string `mapstructure:"google_client_secret"`
}

type Currency struct {
	PrimaryURL  string `mapstructure:"exchangerate_api_url"`
	PrimaryKey  string `mapstructure:"exchangerate_api_key"`
	FallbackURL string `mapstructure:"frankfurter_api_url"`
}

type Sync struct {
	DailyTriggerTime       string `mapstructure:"sync_daily_trigger_time"`
	InitialLookbackDays    int    `mapstructure:"sync_initial_lookback_days"`
	HistoricalLookbackDays int    `mapstructure:"sync_historical_lookback_days"`
	ChunkDays              int    `mapstructure:"sync_chunk_days"`
	RateLimitCooldownSecs  int    `mapstructure:"sync_rate_limit_cooldown_seconds"`
	CreativeBatchSize      int    `mapstructure:"sync_creative_batch_size"`
}

type Assets struct {
	CreativesDir string `mapstructure:"creatives_dir"`
	ServedPrefix string `mapstructure:"creatives_served_prefix"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/creative_performance")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("TOKEN_ENCRYPTION_KEY", "")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v21.0")
	viper.SetDefault("META_PAGE_SIZE", 500)

	viper.SetDefault("TIKTOK_URL", "https://business-api.tiktok.com/open_api/v1.3")
	viper.SetDefault("TIKTOK_PAGE_SIZE", 1000)

	viper.SetDefault("GOOGLE_ADS_URL", "https://googleads.googleapis.com/v15")
	viper.SetDefault("GOOGLE_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")

	viper.SetDefault("EXCHANGERATE_API_URL", "https://v6.exchangerate-api.com/v6")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("FRANKFURTER_API_URL", "https://api.frankfurter.app")

	viper.SetDefault("SYNC_DAILY_TRIGGER_TIME", "00:10")
	viper.SetDefault("SYNC_INITIAL_LOOKBACK_DAYS", 30)
	viper.SetDefault("SYNC_HISTORICAL_LOOKBACK_DAYS", 720)
	viper.SetDefault("SYNC_CHUNK_DAYS", 30)
	viper.SetDefault("SYNC_RATE_LIMIT_COOLDOWN_SECONDS", 60)
	viper.SetDefault("SYNC_CREATIVE_BATCH_SIZE", 50)

	viper.SetDefault("CREATIVES_DIR", "static/creatives")
	viper.SetDefault("CREATIVES_SERVED_PREFIX", "/static/creatives")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("No .env readable by viper, relying on environment variables: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Loaded .env from: ", location)
			return
		}
	}

	logrus.Info("No .env file found, using process environment only")
}
