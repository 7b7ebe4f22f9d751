package domain

import "context"

// SecretCipher protects the stored key with a user-scoped symmetric mechanism.
type SecretCipher interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(blob []byte) ([]byte, error)
}

// SecretStore persists the single API key.
type SecretStore interface {
	Save(key string) error
	Load() (string, error)
	Delete() (bool, error)
}

// ConnectivityProber tells "no network" apart from "service unresponsive".
type ConnectivityProber interface {
	IsOnline(ctx context.Context) bool
}

// PushbulletClient is how we talk to the Pushbullet API.
type PushbulletClient interface {
	ValidateKey(ctx context.Context, key string) (bool, error)
	ListDevices(ctx context.Context, key string) ([]Device, error)
	SendText(ctx context.Context, key string, req SmsRequest) (SendOutcome, error)
}
