package config

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"sync"
)

var (
	cfg  *APIConfig
	once sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	Pagination     PaginationConfig     `xml:"PAGINATION"`
	DB             DBConfig             `xml:"DB"`
	THIRD_PARTY    ThirdPartyConfig     `xml:"THIRD_PARTY"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port           int    `xml:"PORT"`
	Host           string `xml:"HOST"`
	Path           string `xml:"PATH"`
	TimeZone       string `xml:"TIME_ZONE"`
	MaxConnections int    `xml:"MAX_CONNECTIONS"`
	LogDir         string `xml:"LOG_DIR"`
}

// ThirdPartyConfig holds external-capability settings. Secrets are expected
// from the environment; the XML values act as defaults for local setups.
type ThirdPartyConfig struct {
	Gemini       GeminiConfig     `xml:"GEMINI"`
	SpeechToText SpeechConfig     `xml:"SPEECH_TO_TEXT"`
	Cloudinary   CloudinaryConfig `xml:"CLOUDINARY"`
}

type GeminiConfig struct {
	APIKey string `xml:"API_KEY"`
	Model  string `xml:"MODEL"`
}

// SpeechConfig configures the optional transcription capability. When
// disabled, audio answers are evaluated directly from their reference.
type SpeechConfig struct {
	Enabled     bool   `xml:"ENABLED,attr"`
	BaseURL     string `xml:"BASE_URL"`
	APIKey      string `xml:"API_KEY"`
	Language    string `xml:"LANGUAGE"`
	PollMillis  int    `xml:"POLL_MILLIS"`
	TimeoutSecs int    `xml:"TIMEOUT_SECS"`
}

type CloudinaryConfig struct {
	CloudName string `xml:"CLOUD_NAME"`
	APIKey    string `xml:"API_KEY"`
	APISecret string `xml:"API_SECRET"`
	Folder    string `xml:"FOLDER"`
}

// AuthenticationConfig holds authentication settings.
type AuthenticationConfig struct {
	AccessSecret   string `xml:"ACCESS_SECRET"`
	RefreshSecret  string `xml:"REFRESH_SECRET"`
	SessionTimeout int    `xml:"SESSION_TIMEOUT"`
}

// PaginationConfig holds pagination settings.
type PaginationConfig struct {
	PageSize int `xml:"PAGE_SIZE"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	SSLMode  string       `xml:"SSL_MODE"`
	Name     string       `xml:"NAME"`
	Username string       `xml:"USERNAME"`
	Password string       `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoadConfig loads and parses the XML configuration from the given file, then
// overlays secrets from the environment.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		f, err := os.Open(xmlPath)
		if err != nil {
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return
		}

		var newCfg APIConfig
		if err := xml.Unmarshal(data, &newCfg); err != nil {
			return
		}

		newCfg.applyEnvOverrides()
		cfg = &newCfg
	})

	if cfg == nil {
		return nil, errors.New("failed to load configuration from " + xmlPath)
	}
	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

func (c *APIConfig) applyEnvOverrides() {
	overlay(&c.THIRD_PARTY.Gemini.APIKey, "GEMINI_API_KEY")
	overlay(&c.THIRD_PARTY.Gemini.Model, "GEMINI_MODEL")
	overlay(&c.THIRD_PARTY.SpeechToText.BaseURL, "STT_BASE_URL")
	overlay(&c.THIRD_PARTY.SpeechToText.APIKey, "STT_API_KEY")
	overlay(&c.THIRD_PARTY.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	overlay(&c.THIRD_PARTY.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	overlay(&c.THIRD_PARTY.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	overlay(&c.THIRD_PARTY.Cloudinary.Folder, "CLOUDINARY_AUDIO_FOLDER")
	overlay(&c.Authentication.AccessSecret, "JWT_ACCESS_SECRET")
	overlay(&c.Authentication.RefreshSecret, "JWT_REFRESH_SECRET")
	overlay(&c.DB.Password, "DB_PASSWORD")
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
