package sms

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pbsms/internal/domain"
	"pbsms/internal/pushbullet"
)

// Service orchestrates key storage and SMS sending.
type Service struct {
	secrets domain.SecretStore
	api     domain.PushbulletClient
	log     *zap.Logger
}

// New returns a Service backed by the given store and client.
func New(secrets domain.SecretStore, api domain.PushbulletClient, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{secrets: secrets, api: api, log: log}
}

// StoreKey checks the key format, validates it with Pushbullet and saves it.
// A malformed key never reaches the network.
func (s *Service) StoreKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrKeyMissing
	}
	if !strings.HasPrefix(key, domain.APIKeyPrefix) {
		return domain.ErrInvalidKeyFormat
	}

	ok, err := s.api.ValidateKey(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrKeyNotValidated, err)
	}
	if !ok {
		return domain.ErrKeyNotValidated
	}
	if err := s.secrets.Save(key); err != nil {
		return err
	}
	s.log.Debug("api key stored")
	return nil
}

// RemoveKey deletes the stored key and reports whether one existed.
func (s *Service) RemoveKey() (bool, error) {
	removed, err := s.secrets.Delete()
	if err != nil {
		return false, err
	}
	s.log.Debug("api key removal", zap.Bool("removed", removed))
	return removed, nil
}

// Send validates the input, then loads the key, picks a device and sends.
func (s *Service) Send(ctx context.Context, phone, message string) (domain.SendOutcome, error) {
	if err := ValidateRecipient(phone, message); err != nil {
		return domain.SendOutcome{}, err
	}

	key, err := s.secrets.Load()
	if err != nil {
		return domain.SendOutcome{}, err
	}

	devices, err := s.api.ListDevices(ctx, key)
	if err != nil {
		return domain.SendOutcome{}, err
	}
	iden, err := pushbullet.SelectSMSDevice(devices)
	if err != nil {
		return domain.SendOutcome{}, err
	}
	s.log.Debug("selected device", zap.String("iden", iden), zap.Int("devices", len(devices)))

	out, err := s.api.SendText(ctx, key, domain.NewSmsRequest(iden, phone, message))
	if err != nil {
		return domain.SendOutcome{}, err
	}
	s.log.Debug("send finished", zap.Bool("delivered", out.Delivered), zap.Int("status", out.StatusCode))
	return out, nil
}
