package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON configuration file.
type StructuredJSONConfig struct {
	App struct {
		Version       string `json:"version"`
		LogFile       string `json:"log_file"`
		LaunchURL     string `json:"launch_url"`
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
		SkipSamples   bool   `json:"skip_samples"`
	} `json:"app,omitempty"`

	Remote struct {
		Mode           string   `json:"mode"`
		URL            string   `json:"url"`
		APIKey         string   `json:"api_key"`
		ServiceKey     string   `json:"service_key"`
		RequestTimeout Duration `json:"request_timeout"`
		DSN            string   `json:"dsn"`
		TokenSignKey   string   `json:"token_sign_key"`
		TokenIssuer    string   `json:"token_issuer"`
		TokenDuration  Duration `json:"token_duration"`
		FilesDir       string   `json:"files_dir"`
		PublicBaseURL  string   `json:"public_base_url"`
	} `json:"remote,omitempty"`

	Mirror struct {
		DSN       string   `json:"dsn"`
		CacheSize int      `json:"cache_size"`
		CacheTTL  Duration `json:"cache_ttl"`
	} `json:"mirror,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthRateLimit  float64  `json:"auth_rate_limit"`
		AuthRateBurst  int      `json:"auth_rate_burst"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:       jsonCfg.App.Version,
			LogFile:       jsonCfg.App.LogFile,
			LaunchURL:     jsonCfg.App.LaunchURL,
			AdminEmail:    jsonCfg.App.AdminEmail,
			AdminPassword: jsonCfg.App.AdminPassword,
			SkipSamples:   jsonCfg.App.SkipSamples,
		},
		Remote: Remote{
			Mode:           jsonCfg.Remote.Mode,
			URL:            jsonCfg.Remote.URL,
			APIKey:         jsonCfg.Remote.APIKey,
			ServiceKey:     jsonCfg.Remote.ServiceKey,
			RequestTimeout: time.Duration(jsonCfg.Remote.RequestTimeout),
			DSN:            jsonCfg.Remote.DSN,
			TokenSignKey:   jsonCfg.Remote.TokenSignKey,
			TokenIssuer:    jsonCfg.Remote.TokenIssuer,
			TokenDuration:  time.Duration(jsonCfg.Remote.TokenDuration),
			FilesDir:       jsonCfg.Remote.FilesDir,
			PublicBaseURL:  jsonCfg.Remote.PublicBaseURL,
		},
		Mirror: Mirror{
			DSN:       jsonCfg.Mirror.DSN,
			CacheSize: jsonCfg.Mirror.CacheSize,
			CacheTTL:  time.Duration(jsonCfg.Mirror.CacheTTL),
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AuthRateLimit:  jsonCfg.Server.AuthRateLimit,
			AuthRateBurst:  jsonCfg.Server.AuthRateBurst,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
