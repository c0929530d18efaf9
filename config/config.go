package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sjgames/scoreboard/models"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort   int
	DatabaseURL  string // пустое значение — работаем без БД, снапшот в памяти
	JWTSecretKey string

	// PIN-коды двух уровней доступа. Сравнение — простое равенство строк,
	// криптографических гарантий здесь нет и не заявлено.
	JudgePIN  string
	MasterPIN string

	ScoreTable models.ScoreTable

	// Зеркало снапшота в S3-совместимое хранилище (Cloudflare R2).
	// Выключено, пока не заполнены реквизиты.
	R2             R2Config
	MirrorInterval time.Duration
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled сообщает, заданы ли реквизиты зеркала полностью.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" &&
		c.BucketName != "" && c.PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	scores := models.DefaultScoreTable()
	if scores.Win, err = intEnv("SCORE_WIN", scores.Win); err != nil {
		return nil, err
	}
	if scores.Draw, err = intEnv("SCORE_DRAW", scores.Draw); err != nil {
		return nil, err
	}
	if scores.Loss, err = intEnv("SCORE_LOSS", scores.Loss); err != nil {
		return nil, err
	}

	mirrorMinutes, err := intEnv("MIRROR_INTERVAL_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:   port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecretKey: jwtKey,
		JudgePIN:     stringEnv("JUDGE_PIN", "1234"),
		MasterPIN:    stringEnv("MASTER_PIN", "0000"),
		ScoreTable:   scores,
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
		MirrorInterval: time.Duration(mirrorMinutes) * time.Minute,
	}

	if cfg.JudgePIN == cfg.MasterPIN {
		return nil, fmt.Errorf("JUDGE_PIN and MASTER_PIN must differ")
	}

	return cfg, nil
}

func stringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return value, nil
}
