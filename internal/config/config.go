package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	BackendGocv   = "gocv"
	BackendRemote = "remote"
)

type Config struct {
	Port                int
	DetectorBackend     string  // gocv albo remote
	ModelPath           string  // YOLO wyeksportowany do ONNX
	LabelsPath          string  // plik z nazwami klas, pusty = wbudowane COCO
	InferenceURL        string  // adres zewnętrznego serwisu inferencji
	ConfidenceThreshold float64 // minimalna pewność detekcji
	NMSThreshold        float64
	ModelInputSize      int
	VocabPath           string
	RomanizationPath    string
	HistoryDBPath       string // pusty wyłącza historię skanów
	LogDirectory        string
	AllowedOrigin       string
	MaxBodyBytes        int64
	TelegramToken       string
}

// Load reads configuration from the environment, loading a .env file first when present.
func Load() *Config {
	// brak pliku .env nie jest błędem
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 5001),
		DetectorBackend:     getEnv("DETECTOR_BACKEND", BackendGocv),
		ModelPath:           getEnv("MODEL_PATH", filepath.Join(".", "models", "yolov8n.onnx")),
		LabelsPath:          getEnv("LABELS_PATH", ""),
		InferenceURL:        getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.5),
		NMSThreshold:        getEnvAsFloat("NMS_THRESHOLD", 0.45),
		ModelInputSize:      getEnvAsInt("MODEL_INPUT_SIZE", 640),
		VocabPath:           getEnv("VOCAB_PATH", "vocab_mapping.json"),
		RomanizationPath:    getEnv("ROMANIZATION_PATH", "romanization.json"),
		HistoryDBPath:       getEnv("HISTORY_DB", filepath.Join(".", "data", "history.db")),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		AllowedOrigin:       getEnv("ALLOWED_ORIGIN", "*"),
		MaxBodyBytes:        getEnvAsInt64("MAX_BODY_BYTES", 20<<20),
		TelegramToken:       getEnv("TELEGRAM_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
