// Package config reads settings from the environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	GRPCAddr  string
	MySQLDSN  string
	RedisAddr string

	MenuFile       string
	DeliveryCharge int64

	SubmitTransport  string
	SubmitURL        string
	SubmitGRPCTarget string
	SubmitTimeout    time.Duration

	QuantityBackend string
	MenuSession     string
	ClearOnConfirm  bool

	WorkerCount int
	QueueSize   int

	LogLevel  string
	LogFormat string
}

// Load reads the environment. A missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	c := Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:         getEnv("GRPC_ADDR", ":50051"),
		MySQLDSN:         getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/menuorder?parseTime=true"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		MenuFile:         getEnv("MENU_FILE", "config/menu.json"),
		SubmitTransport:  getEnv("SUBMIT_TRANSPORT", "http"),
		SubmitURL:        getEnv("SUBMIT_URL", "http://localhost:8080"),
		SubmitGRPCTarget: getEnv("SUBMIT_GRPC_TARGET", "localhost:50051"),
		QuantityBackend:  getEnv("QUANTITY_BACKEND", "redis"),
		MenuSession:      getEnv("MENU_SESSION", "default"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if c.DeliveryCharge, err = getInt64("DELIVERY_CHARGE_PENCE", 500); err != nil {
		return Config{}, err
	}
	if c.DeliveryCharge < 0 {
		return Config{}, fmt.Errorf("DELIVERY_CHARGE_PENCE must not be negative")
	}
	if c.SubmitTimeout, err = getDuration("SUBMIT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if c.ClearOnConfirm, err = getBool("CLEAR_ON_CONFIRM", false); err != nil {
		return Config{}, err
	}
	if c.WorkerCount, err = getInt("WORKER_COUNT", 10); err != nil {
		return Config{}, err
	}
	if c.QueueSize, err = getInt("QUEUE_SIZE", 10000); err != nil {
		return Config{}, err
	}

	switch c.SubmitTransport {
	case "http", "grpc":
	default:
		return Config{}, fmt.Errorf("SUBMIT_TRANSPORT must be http or grpc, got %q", c.SubmitTransport)
	}
	switch c.QuantityBackend {
	case "redis", "memory":
	default:
		return Config{}, fmt.Errorf("QUANTITY_BACKEND must be redis or memory, got %q", c.QuantityBackend)
	}

	return c, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
