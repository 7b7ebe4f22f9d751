package commands

import (
	"context"
	"errors"

	"pbsms/internal/app"
	"pbsms/internal/domain"
	smssvc "pbsms/internal/services/sms"
	"pbsms/internal/ui"
)

// runKey handles APIKey=<value>: remove, or validate and store.
func runKey(ctx context.Context, w *app.Wire, value string, out, errOut *ui.Printer) error {
	if value == "" {
		errOut.Error("Error: Pushbullet API key is missing.")
		return errFailed
	}

	if smssvc.IsRemoveKeyword(value) {
		removed, err := w.SMS.RemoveKey()
		switch {
		case err != nil:
			errOut.Error("Error: Failed to remove API key.")
			errOut.Error("%v", err)
			return errFailed
		case removed:
			out.Success("Success: Pushbullet API key has been removed.")
		default:
			out.Info("Info: No stored Pushbullet API key was found to remove.")
		}
		return nil
	}

	err := w.SMS.StoreKey(ctx, value)
	switch {
	case err == nil:
		out.Success("Success: Pushbullet API key has been validated and saved.")
		return nil
	case errors.Is(err, domain.ErrKeyMissing):
		errOut.Error("Error: Pushbullet API key is missing.")
	case errors.Is(err, domain.ErrInvalidKeyFormat):
		errOut.Error("Error: Invalid Pushbullet API key. Key must start with '%s'", domain.APIKeyPrefix)
	case errors.Is(err, domain.ErrKeyNotValidated):
		var te *domain.TimeoutError
		if errors.As(err, &te) {
			errOut.Error("Error: %s", timeoutMessage(te))
		}
		errOut.Error("Error: The API key could not be validated by Pushbullet.")
	default:
		errOut.Error("Error: Failed to save API key.")
		errOut.Error("%v", err)
	}
	return errFailed
}
