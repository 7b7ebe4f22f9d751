package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pbsms/internal/netprobe"
	"pbsms/internal/pushbullet"
)

// Config keys, also used as flag names where a flag exists.
const (
	KeyHome            = "home"
	KeyBaseURL         = "base_url"
	KeyProbeURL        = "probe_url"
	KeyValidateTimeout = "validate_timeout"
	KeyRequestTimeout  = "request_timeout"
	KeyProbeTimeout    = "probe_timeout"
	KeyCipher          = "cipher"
	KeyVerbose         = "verbose"
)

// Supported cipher names.
const (
	CipherKeyring = "keyring"
	CipherHost    = "host"
)

// HostCipherWarning is shown whenever the host cipher is in use.
const HostCipherWarning = "cipher \"host\" only obfuscates the stored key; anyone who can read settings.dat can decrypt it. Use \"keyring\" where an OS keyring is available."

// EnvPrefix is prepended to every environment variable, e.g. PBSMS_BASE_URL.
const EnvPrefix = "PBSMS"

// appDirName is the per-user directory below os.UserConfigDir.
const appDirName = "PBSMS"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home            string        // directory holding settings.dat
	BaseURL         string        // Pushbullet API root
	ProbeURL        string        // connectivity probe target
	ValidateTimeout time.Duration // GET /users/me
	RequestTimeout  time.Duration // GET /devices, POST /texts
	ProbeTimeout    time.Duration
	Cipher          string // keyring or host
	Verbose         bool

	HTTP      *http.Client // optional; defaults to http.DefaultClient
	LogOutput io.Writer    // optional; defaults to os.Stderr
}

// DefaultHome returns <UserConfigDir>/PBSMS.
func DefaultHome() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, pushbullet.DefaultBaseURL)
	v.SetDefault(KeyProbeURL, netprobe.DefaultURL)
	v.SetDefault(KeyValidateTimeout, pushbullet.DefaultValidateTimeout)
	v.SetDefault(KeyRequestTimeout, pushbullet.DefaultRequestTimeout)
	v.SetDefault(KeyProbeTimeout, netprobe.DefaultTimeout)
	v.SetDefault(KeyCipher, CipherKeyring)
	v.SetDefault(KeyVerbose, false)
}

// LoadConfig resolves a Config from v. Flags must already be bound to v.
// cfgFile, when set, names a config file that must exist.
func LoadConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	home := v.GetString(KeyHome)
	if home == "" {
		var err error
		if home, err = DefaultHome(); err != nil {
			return Config{}, fmt.Errorf("locating config directory: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(home)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := Config{
		Home:            home,
		BaseURL:         strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		ProbeURL:        v.GetString(KeyProbeURL),
		ValidateTimeout: v.GetDuration(KeyValidateTimeout),
		RequestTimeout:  v.GetDuration(KeyRequestTimeout),
		ProbeTimeout:    v.GetDuration(KeyProbeTimeout),
		Cipher:          strings.ToLower(v.GetString(KeyCipher)),
		Verbose:         v.GetBool(KeyVerbose),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Home == "":
		return errors.New("config: home must not be empty")
	case c.BaseURL == "":
		return errors.New("config: base_url must not be empty")
	case c.ProbeURL == "":
		return errors.New("config: probe_url must not be empty")
	case c.ValidateTimeout <= 0, c.RequestTimeout <= 0, c.ProbeTimeout <= 0:
		return errors.New("config: timeouts must be positive")
	case c.Cipher != CipherKeyring && c.Cipher != CipherHost:
		return fmt.Errorf("config: unknown cipher %q (want %q or %q)", c.Cipher, CipherKeyring, CipherHost)
	}
	return nil
}
