package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read into Settings.
const EnvPrefix = "CLICKFORM_"

// Settings are the tunable application settings.
type Settings struct {
	API    APISettings    `koanf:"api"`
	Cache  CacheSettings  `koanf:"cache"`
	Server ServerSettings `koanf:"server"`
	OAuth  OAuthSettings  `koanf:"oauth"`
	Log    LogSettings    `koanf:"log"`
	Dates  DateSettings   `koanf:"dates"`
}

// APISettings configure the remote API client.
type APISettings struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout"  validate:"gt=0"`
}

// CacheSettings select the lookup cache backend.
type CacheSettings struct {
	Backend   string `koanf:"backend"    validate:"oneof=memory redis"`
	RedisAddr string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	Prefix    string `koanf:"prefix"`
}

// ServerSettings configure the HTTP receiver.
type ServerSettings struct {
	Addr string `koanf:"addr" validate:"required"`
}

// OAuthSettings hold the ClickUp OAuth app used by login.
type OAuthSettings struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Port         int    `koanf:"port" validate:"gte=1,lte=65535"`
}

// LogSettings configure logging output.
type LogSettings struct {
	JSON bool `koanf:"json"`
}

// DateSettings configure due-date parsing.
type DateSettings struct {
	Timezone string `koanf:"timezone" validate:"required"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		API: APISettings{
			BaseURL: "https://api.clickup.com/api/",
			Timeout: 30 * time.Second,
		},
		Cache: CacheSettings{
			Backend: "memory",
			Prefix:  "clickform:",
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:8087",
		},
		OAuth: OAuthSettings{
			Port: 8085,
		},
		Dates: DateSettings{
			Timezone: "UTC",
		},
	}
}

// HasOAuthApp reports whether OAuth client credentials are configured.
func (s Settings) HasOAuthApp() bool {
	return s.OAuth.ClientID != "" && s.OAuth.ClientSecret != ""
}

// Location returns the configured date parsing zone.
func (s Settings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Dates.Timezone)
}

// LoadSettings loads defaults, then the YAML file at path (if it exists),
// then CLICKFORM_* environment variables, and validates the result.
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	fileValues, err := readYAML(path)
	if err != nil {
		return nil, err
	}
	for key, value := range flattenMap("", fileValues) {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set key %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &s,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := validator.New().Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if _, err := s.Location(); err != nil {
		return nil, fmt.Errorf("invalid settings: dates.timezone: %w", err)
	}
	return &s, nil
}

// transformEnvKey converts CLICKFORM_CACHE_REDIS_ADDR to cache.redis_addr.
func transformEnvKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return "", nil
	}
	if len(parts) == 1 {
		return parts[0], value
	}
	return parts[0] + "." + strings.Join(parts[1:], "_"), value
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}

// flattenMap flattens a nested map into dot-notation keys, dropping nils.
func flattenMap(prefix string, m map[string]any) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case nil:
			continue
		case map[string]any:
			for nk, nv := range flattenMap(key, val) {
				result[nk] = nv
			}
		default:
			result[key] = val
		}
	}
	return result
}
