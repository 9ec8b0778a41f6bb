package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "melissa"
	defaultRedisAddr     = "localhost:6379"
	defaultAppPort       = "5000"
	defaultAppEnv        = "development"
	defaultUploadDir     = "uploads"
	defaultUploadMax     = 5 << 20 // 5 MiB per file
	defaultCacheTTL      = 60      // seconds
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json and .env over the built-in defaults.
// Safe to call many times; only the first call does work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGODB_URI":      defaultMongoURI,
		"MONGO_DATABASE":   defaultMongoDatabase,
		"JWT_SECRET":       "", // intentionally no default; token issuance fails without it
		"APP_PORT":         defaultAppPort,
		"APP_ENV":          defaultAppEnv,
		"CORS_ORIGINS":     "",
		"UPLOAD_DIR":       defaultUploadDir,
		"UPLOAD_MAX_BYTES": strconv.Itoa(defaultUploadMax),
		"STORAGE_DISK":     "local",
		"REDIS_ADDR":       defaultRedisAddr,
		"REDIS_PASSWORD":   "",
	}
}

func MongoURI() string {
	_ = Load()
	if v := os.Getenv("MONGODB_URI"); v != "" {
		return v
	}
	return get("MONGODB_URI", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DATABASE", defaultMongoDatabase)
}

// JWTSecret returns the token signing key, or "" when unconfigured.
// Callers must treat "" as a server configuration error.
func JWTSecret() string {
	_ = Load()
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	return get("JWT_SECRET", "")
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// CORSOrigins returns the configured cross-origin allow-list.
// An empty list means no cross-origin access; "*" allows everything.
func CORSOrigins() []string {
	_ = Load()
	raw := get("CORS_ORIGINS", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func UploadDir() string {
	_ = Load()
	return get("UPLOAD_DIR", defaultUploadDir)
}

// UploadMaxBytes is the per-file upload size cap.
func UploadMaxBytes() int64 {
	_ = Load()
	n, err := strconv.ParseInt(get("UPLOAD_MAX_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultUploadMax
	}
	return n
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

// CacheTTLSeconds is the TTL for the public listing caches.
func CacheTTLSeconds() int {
	_ = Load()
	n, err := strconv.Atoi(get("CACHE_TTL_SECONDS", ""))
	if err != nil || n <= 0 {
		return defaultCacheTTL
	}
	return n
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDisk() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// Get reads any config key by name with an optional fallback.
// Keys from .env and config/app.json are available after Load().
func Get(key, fallback string) string {
	_ = Load()
	if v := os.Getenv(key); v != "" {
		return v
	}
	return get(key, fallback)
}

// Set overrides a config value at runtime. Used by the CLI and by tests;
// regular application code should only read.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(strings.TrimSpace(key))] = value
	mu.Unlock()
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}
