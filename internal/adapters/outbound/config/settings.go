package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppName names the XDG directories used by lhdiff.
const AppName = "lhdiff"

const (
	settingsName      = "settings"
	settingsType      = "yaml"
	environmentPrefix = "LHDIFF"

	KeyLogLevel   = "log_level"
	KeyLogFormat  = "log_format"
	KeyHistoryDir = "history_dir"
	KeyEncodings  = "encodings"
)

// Settings are the application-level options shared by every command.
// They are distinct from the comparison plan.
type Settings struct {
	LogLevel   string   `mapstructure:"log_level"`
	LogFormat  string   `mapstructure:"log_format"`
	HistoryDir string   `mapstructure:"history_dir"`
	Encodings  []string `mapstructure:"encodings"`
}

// DefaultSettings returns the values used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:   "warn",
		LogFormat:  "console",
		HistoryDir: DataDir(),
		Encodings:  []string{"utf-16", "utf-8"},
	}
}

// SettingsLoader wraps viper to merge defaults, an optional settings file
// and LHDIFF_* environment variables.
type SettingsLoader struct {
	searchPaths []string
}

// NewSettingsLoader creates a loader that searches the XDG config directory.
func NewSettingsLoader(searchPaths ...string) *SettingsLoader {
	if len(searchPaths) == 0 {
		searchPaths = []string{ConfigDir()}
	}
	return &SettingsLoader{searchPaths: append([]string(nil), searchPaths...)}
}

// Load resolves settings. An explicit settingsFile must exist; the default
// search location may be absent. It returns the file used, if any.
func (l *SettingsLoader) Load(settingsFile string) (Settings, string, error) {
	v := viper.New()
	v.SetConfigName(settingsName)
	v.SetConfigType(settingsType)
	for _, p := range l.searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(environmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
	v.SetDefault(KeyLogFormat, defaults.LogFormat)
	v.SetDefault(KeyHistoryDir, defaults.HistoryDir)
	v.SetDefault(KeyEncodings, defaults.Encodings)

	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || settingsFile != "" {
			return Settings{}, "", fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		trimSliceHook(),
	))
	if err := v.Unmarshal(&s, hook); err != nil {
		return Settings{}, "", fmt.Errorf("failed to parse settings: %w", err)
	}

	return s, v.ConfigFileUsed(), nil
}

// trimSliceHook trims whitespace around comma-separated environment values.
func trimSliceHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, _ reflect.Type, data any) (any, error) {
		items, ok := data.([]string)
		if !ok {
			return data, nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	}
}

// DataDir is where run history is stored by default.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ConfigDir is where settings.yaml is looked up by default.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
