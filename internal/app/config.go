package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hyperifyio/ltxmd/internal/fetch"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime configuration for the application.
type Config struct {
	// Conversion of a local file
	InputPath  string
	OutputPath string

	// Fetching from arXiv
	OutputDir        string
	SaveHTML         bool
	BaseURL          string        `validate:"required,url"`
	UserAgent        string        `validate:"required"`
	Timeout          time.Duration `validate:"gte=0"`
	MaxAttempts      int           `validate:"gte=1,lte=10"`
	Concurrency      int           `validate:"gte=1,lte=64"`
	SSLVerify        bool
	InsecureFallback bool
	RespectRobots    bool

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration `validate:"gte=0"`
	CacheMaxBytes    int64         `validate:"gte=0"`
	CacheMaxEntries  int           `validate:"gte=0"`
	CacheClear       bool
	CacheStrictPerms bool
	BypassCache      bool

	// Behavior
	Verbose bool
	Stats   bool
}

// DefaultConfig returns the configuration used when neither flags, env nor
// a config file say otherwise.
func DefaultConfig() Config {
	return Config{
		OutputDir:        ".",
		BaseURL:          fetch.DefaultBaseURL,
		UserAgent:        "Mozilla/5.0 (compatible; ltxmd/" + BuildVersion + ")",
		Timeout:          30 * time.Second,
		MaxAttempts:      3,
		Concurrency:      4,
		SSLVerify:        true,
		InsecureFallback: true,
	}
}

var validate = validator.New()

// ValidateConfig checks limits and the base URL.
func ValidateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
