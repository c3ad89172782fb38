package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"admind"`
	DBPath     string `env:"DBPath" envDefault:"datas/admind.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	RedisURL        string `env:"REDIS_URL" envDefault:"redis://127.0.0.1:6379/0"`
	RedisPassword   string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"-1"`
	RedisMaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"2"`
	RedisPoolSize   int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	CookieName      string        `env:"COOKIE_NAME" envDefault:"admind_token"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	// KV 命名空间前缀,启动时读取一次
	TokenPrefix     string `env:"TOKEN_PREFIX" envDefault:"auth:token"`
	TokenMetaPrefix string `env:"TOKEN_META_PREFIX" envDefault:"auth:token_meta"`
	OnlineKey       string `env:"ONLINE_KEY" envDefault:"auth:online"`
	RefreshPrefix   string `env:"REFRESH_PREFIX" envDefault:"auth:refresh"`
	BlacklistPrefix string `env:"BLACKLIST_PREFIX" envDefault:"auth:blacklist"`
	CaptchaPrefix   string `env:"CAPTCHA_PREFIX" envDefault:"auth:captcha"`
	ConfigPrefix    string `env:"CACHE_CONFIG_PREFIX" envDefault:"cache:config"`
	DictPrefix      string `env:"CACHE_DICT_PREFIX" envDefault:"cache:dict"`
	PermsPrefix     string `env:"CACHE_PERMS_PREFIX" envDefault:"cache:perms"`

	ConfigCacheTTL time.Duration `env:"CONFIG_CACHE_TTL" envDefault:"1h"`
	DictCacheTTL   time.Duration `env:"DICT_CACHE_TTL" envDefault:"1h"`
	PermsCacheTTL  time.Duration `env:"PERMS_CACHE_TTL" envDefault:"10m"`

	CaptchaLength int           `env:"CAPTCHA_LENGTH" envDefault:"4"`
	CaptchaTTL    time.Duration `env:"CAPTCHA_TTL" envDefault:"5m"`

	StorageType          string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"datas/files"`
	StoragePublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"/files"`

	// S3 兼容存储配置
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`
}

func ParseConfig() (Config, error) {
	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.Debugf("%#v\n", Conf)
	return Conf, nil
}

// ParseLogLevel 将配置的日志级别转换为 logrus 级别,非法值回退到 info
func ParseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
