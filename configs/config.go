package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	PostgresURI           string
	RedisURI              string
	R2                    R2
	SecretKey             string
	TwitterConsumerKey    string
	TwitterConsumerSecret string
	GoogleClientID        string
	GoogleClientSecret    string
	TelegramBotToken      string
	BlueskyPDSURL         string
	LinkedInAPIBaseURL    string
	GraphAPIBaseURL       string
	ThreadsAPIBaseURL     string
	TiktokAPIBaseURL      string
	TelegramAPIBaseURL    string
}

func LoadConfig() *Config {
	return &Config{
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:             getEnv("SECRET_KEY", ""),
		TwitterConsumerKey:    getEnv("TWITTER_CONSUMER_KEY", ""),
		TwitterConsumerSecret: getEnv("TWITTER_CONSUMER_SECRET", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		TelegramBotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		BlueskyPDSURL:         getEnv("BLUESKY_PDS_URL", "https://bsky.social"),
		LinkedInAPIBaseURL:    getEnv("LINKEDIN_API_BASE_URL", "https://api.linkedin.com"),
		GraphAPIBaseURL:       getEnv("GRAPH_API_BASE_URL", "https://graph.facebook.com/v21.0"),
		ThreadsAPIBaseURL:     getEnv("THREADS_API_BASE_URL", "https://graph.threads.net/v1.0"),
		TiktokAPIBaseURL:      getEnv("TIKTOK_API_BASE_URL", "https://open.tiktokapis.com"),
		TelegramAPIBaseURL:    getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
