package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации игры.
type Config struct {
	Tower     TowerConfig     `yaml:"tower"`
	Logging   LoggingConfig   `yaml:"logging"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type TowerConfig struct {
	// CheatChances — nil означает "не задано", чтобы 0 можно было указать явно.
	CheatChances *int  `yaml:"cheat_chances"`
	Seed         int64 `yaml:"seed"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	NoColor bool   `yaml:"no_color"`
}

type EventBusConfig struct {
	Capacity int `yaml:"capacity"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Значения по умолчанию
const (
	DefaultCheatChances     = 3
	DefaultEventBusCapacity = 256
	DefaultServiceName      = "jenga"
	DefaultLogLevel         = "info"
)

// GetCheatChances возвращает число попыток жульничества: config -> env -> default
func (t *TowerConfig) GetCheatChances() int {
	if t.CheatChances != nil && *t.CheatChances >= 0 {
		return *t.CheatChances
	}
	return getIntWithEnvFallback(0, "JENGA_CHEAT_CHANCES", DefaultCheatChances, true)
}

// GetSeed возвращает seed генератора; 0 — seed от времени
func (t *TowerConfig) GetSeed() int64 {
	if t.Seed != 0 {
		return t.Seed
	}
	if envVal := os.Getenv("JENGA_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 0
}

// GetLevel возвращает уровень логирования с fallback на JENGA_LOG_LEVEL
func (l *LoggingConfig) GetLevel() string {
	if l.Level != "" {
		return l.Level
	}
	if envVal := os.Getenv("JENGA_LOG_LEVEL"); envVal != "" {
		return envVal
	}
	return DefaultLogLevel
}

// GetCapacity возвращает размер буфера шины событий
func (e *EventBusConfig) GetCapacity() int {
	return getIntWithEnvFallback(e.Capacity, "JENGA_EVENTBUS_CAPACITY", DefaultEventBusCapacity, false)
}

// GetServiceName возвращает имя сервиса для трассировки
func (t *TelemetryConfig) GetServiceName() string {
	if t.ServiceName != "" {
		return t.ServiceName
	}
	return DefaultServiceName
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default.
// allowZero разрешает брать 0 из переменной окружения.
func getIntWithEnvFallback(configVal int, envVar string, defaultVal int, allowZero bool) int {
	if configVal > 0 {
		return configVal
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && (v > 0 || (allowZero && v == 0)) {
			return v
		}
	}

	return defaultVal
}

// Default возвращает пустую конфигурацию; все значения берутся из env или дефолтов.
func Default() *Config {
	return &Config{}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV JENGA_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("JENGA_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
	}

	return &cfg, nil
}
