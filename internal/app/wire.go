package app

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"pbsms/internal/crypto"
	"pbsms/internal/domain"
	"pbsms/internal/logging"
	"pbsms/internal/netprobe"
	"pbsms/internal/pushbullet"
	smssvc "pbsms/internal/services/sms"
	"pbsms/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Secrets    *store.SecretFileStore
	Prober     *netprobe.Prober
	Pushbullet *pushbullet.Client
	SMS        *smssvc.Service
	Log        *zap.Logger
	HTTP       *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logOut := cfg.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	log := logging.New(logOut, cfg.Verbose)

	cipher, err := newCipher(cfg.Cipher)
	if err != nil {
		return nil, err
	}
	secrets := store.NewSecretFileStore(cfg.Home, cipher)

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	prober := netprobe.New(cfg.ProbeURL, cfg.ProbeTimeout, httpClient, log.Named("probe"))

	pb := pushbullet.New(cfg.BaseURL, httpClient, prober, log.Named("pushbullet"))
	pb.ValidateTimeout = cfg.ValidateTimeout
	pb.RequestTimeout = cfg.RequestTimeout

	log.Debug("wired",
		zap.String("home", cfg.Home),
		zap.String("cipher", cfg.Cipher),
		zap.String("base_url", cfg.BaseURL))

	return &Wire{
		Secrets:    secrets,
		Prober:     prober,
		Pushbullet: pb,
		SMS:        smssvc.New(secrets, pb, log.Named("sms")),
		Log:        log,
		HTTP:       httpClient,
	}, nil
}

func newCipher(name string) (domain.SecretCipher, error) {
	if name == CipherHost {
		id, err := crypto.CurrentHost()
		if err != nil {
			return nil, err
		}
		return crypto.NewHostCipher(id), nil
	}
	return crypto.NewKeyringCipher(), nil
}
