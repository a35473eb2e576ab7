package config

import (
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"8000"`
	SecretKey    string   `env:"SECRET_KEY" envDefault:"dev-secret-change-me"`
	Debug        bool     `env:"DEBUG" envDefault:"false"`
	AllowedHosts []string `env:"ALLOWED_HOSTS" envSeparator:"," envDefault:"localhost,127.0.0.1"`
	CORSOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	DBType     string `env:"DB_ENGINE" envDefault:"sqlite"`
	DSNURL     string `env:"DATABASE_URL" envDefault:""`
	DBUser     string `env:"DB_USER" envDefault:""`
	DBPassword string `env:"DB_PASSWORD" envDefault:""`
	DBAddr     string `env:"DB_HOST" envDefault:"localhost"`
	DBName     string `env:"DB_NAME" envDefault:"agcbo"`
	DBPath     string `env:"DB_PATH" envDefault:"data/agcbo.db"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	StorageType          string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir      string `env:"MEDIA_ROOT" envDefault:"data/media"`
	StoragePublicBaseURL string `env:"MEDIA_URL" envDefault:"/media"`
	UploadMaxBytes       int64  `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`

	// S3 compatible storage
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`

	JWTIssuer             string `env:"JWT_ISSUER" envDefault:"agcbo"`
	JWTAccessMinutes      int    `env:"JWT_ACCESS_TOKEN_LIFETIME_MINUTES" envDefault:"60"`
	JWTRefreshMinutes     int    `env:"JWT_REFRESH_TOKEN_LIFETIME_MINUTES" envDefault:"10080"`
	SessionName           string `env:"SESSION_COOKIE_NAME" envDefault:"agcbo_session"`
	SessionMaxAgeSeconds  int    `env:"SESSION_COOKIE_AGE" envDefault:"1209600"`
	SessionSecureCookie   bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	RedisURL              string `env:"REDIS_URL" envDefault:""`
	TemplateDir           string `env:"TEMPLATE_DIR" envDefault:""`
	BootstrapAdminUser    string `env:"ADMIN_USERNAME" envDefault:""`
	BootstrapAdminEmail   string `env:"ADMIN_EMAIL" envDefault:""`
	BootstrapAdminPass    string `env:"ADMIN_PASSWORD" envDefault:""`
	SeedGeography         bool   `env:"SEED_GEOGRAPHY" envDefault:"true"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile               string `env:"LOG_FILE" envDefault:""`
	LogMaxSizeMB          int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups         int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays         int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	EmailBackend          string `env:"EMAIL_BACKEND" envDefault:"console"`
	EmailHost             string `env:"EMAIL_HOST" envDefault:""`
	EmailPort             int    `env:"EMAIL_PORT" envDefault:"587"`
	EmailHostUser         string `env:"EMAIL_HOST_USER" envDefault:""`
	EmailHostPassword     string `env:"EMAIL_HOST_PASSWORD" envDefault:""`
	DefaultFromEmail      string `env:"DEFAULT_FROM_EMAIL" envDefault:"noreply@agcbo.org"`
	MpesaConsumerKey      string `env:"MPESA_CONSUMER_KEY" envDefault:""`
	MpesaConsumerSecret   string `env:"MPESA_CONSUMER_SECRET" envDefault:""`
	MpesaShortcode        string `env:"MPESA_SHORTCODE" envDefault:""`
	MpesaPasskey          string `env:"MPESA_PASSKEY" envDefault:""`
	PaypalClientID        string `env:"PAYPAL_CLIENT_ID" envDefault:""`
	PaypalClientSecret    string `env:"PAYPAL_CLIENT_SECRET" envDefault:""`
	StripePublishableKey  string `env:"STRIPE_PUBLISHABLE_KEY" envDefault:""`
	StripeSecretKey       string `env:"STRIPE_SECRET_KEY" envDefault:""`
}

// Capabilities reports which optional integrations are configured. It is
// computed once at startup and passed around by value.
type Capabilities struct {
	Redis         bool `json:"redis"`
	RemoteStorage bool `json:"remote_storage"`
	Email         bool `json:"email"`
	Mpesa         bool `json:"mpesa"`
	Paypal        bool `json:"paypal"`
	Stripe        bool `json:"stripe"`
}

func (c Config) Capabilities() Capabilities {
	storageType := strings.ToLower(strings.TrimSpace(c.StorageType))
	return Capabilities{
		Redis:         strings.TrimSpace(c.RedisURL) != "",
		RemoteStorage: storageType != "" && storageType != "local",
		Email:         c.EmailBackend == "smtp" && strings.TrimSpace(c.EmailHost) != "",
		Mpesa:         allSet(c.MpesaConsumerKey, c.MpesaConsumerSecret, c.MpesaShortcode),
		Paypal:        allSet(c.PaypalClientID, c.PaypalClientSecret),
		Stripe:        allSet(c.StripeSecretKey),
	}
}

func allSet(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func ParseConfig() (Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	if conf.DBType == "sqlite3" {
		conf.DBType = "sqlite"
	}
	logrus.WithFields(logrus.Fields{
		"db_engine":    conf.DBType,
		"storage_type": conf.StorageType,
		"debug":        conf.Debug,
	}).Debug("configuration loaded")
	return conf, nil
}
