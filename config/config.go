package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "2MB"

	defaultBackendTimeout = 15 * time.Second

	defaultCutoffHour           = 7
	defaultValidForSeconds      = 30
	defaultCutoffPollInterval   = 30 * time.Second
	defaultQRSize               = 280
	defaultErrorCorrectionLevel = "H"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Backend is the attendance REST API this station talks to
	Backend *BackendConfig `json:"backend" yaml:"backend"`

	// QR configuration for the rotating display token
	QR *QRConfig `json:"qr" yaml:"qr"`

	// Archive configuration for uploaded boundary documents
	Archive *ArchiveConfig `json:"archive" yaml:"archive"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// BackendConfig defines how to reach and authenticate against the attendance API
type BackendConfig struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// AccessToken is an opaque bearer token. When empty, Username and Password are used to log in.
	AccessToken string `json:"accessToken" yaml:"accessToken"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// QRConfig defines the rotation and rendering parameters of the display token
type QRConfig struct {
	// Generation is disabled at or after this local hour (0-23).
	// A pointer so that an explicit 0 survives defaulting.
	CutoffHour *int `json:"cutoffHour" yaml:"cutoffHour"`

	// Lifetime of one display token before it is replaced
	ValidForSeconds int `json:"validForSeconds" yaml:"validForSeconds"`

	// How often the cutoff is re-checked for the lifetime of the station
	CutoffPollInterval time.Duration `json:"cutoffPollInterval" yaml:"cutoffPollInterval"`

	// IANA zone used for the cutoff wall clock; empty means the host's local zone
	Timezone string `json:"timezone" yaml:"timezone"`

	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// Cutoff returns the configured cutoff hour
func (c *QRConfig) Cutoff() int {
	if c.CutoffHour == nil {
		return defaultCutoffHour
	}

	return *c.CutoffHour
}

// ValidFor returns the token lifetime as a duration
func (c *QRConfig) ValidFor() time.Duration {
	return time.Duration(c.ValidForSeconds) * time.Second
}

// Location resolves the configured timezone
func (c *QRConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", c.Timezone)
	}

	return loc, nil
}

// ArchiveConfig defines where boundary documents are archived.
// BucketURL accepts any gocloud.dev/blob URL (file:///var/lib/station/archive, mem://).
type ArchiveConfig struct {
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Environment variables override YAML keys, e.g. QR_CUTOFFHOUR -> qr.cutoffHour
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills every optional setting left empty by the YAML file
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if c.Backend == nil {
		c.Backend = &BackendConfig{}
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = defaultBackendTimeout
	}

	if c.QR == nil {
		c.QR = &QRConfig{}
	}
	if c.QR.CutoffHour == nil {
		cutoff := defaultCutoffHour
		c.QR.CutoffHour = &cutoff
	}
	if c.QR.ValidForSeconds <= 0 {
		c.QR.ValidForSeconds = defaultValidForSeconds
	}
	if c.QR.CutoffPollInterval <= 0 {
		c.QR.CutoffPollInterval = defaultCutoffPollInterval
	}
	if c.QR.Size <= 0 {
		c.QR.Size = defaultQRSize
	}
	if strings.TrimSpace(c.QR.ErrorCorrectionLevel) == "" {
		c.QR.ErrorCorrectionLevel = defaultErrorCorrectionLevel
	}

	if c.Archive == nil {
		c.Archive = &ArchiveConfig{}
	}
}

// Validate checks the options that have no sensible fallback
func (c *Config) Validate() error {
	if c.QR != nil {
		if hour := c.QR.Cutoff(); hour < 0 || hour > 23 {
			return errors.Errorf("qr.cutoffHour must be within 0-23, got %d", hour)
		}
		if _, err := c.QR.Location(); err != nil {
			return err
		}
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
