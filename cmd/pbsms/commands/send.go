package commands

import (
	"context"
	"errors"

	"pbsms/internal/app"
	"pbsms/internal/domain"
	"pbsms/internal/ui"
)

// runSend sends message to phone. A rejection reported by Pushbullet is
// printed but still exits 0; anything failing before that exits 1.
func runSend(ctx context.Context, w *app.Wire, phone, message string, out, errOut *ui.Printer) error {
	outcome, err := w.SMS.Send(ctx, phone, message)
	if err != nil {
		var ie *domain.InputError
		if errors.As(err, &ie) {
			errOut.Error("Error: %s", inputMessage(ie))
			return errFailed
		}
		errOut.Error("Error:")
		errOut.Error("%s", describe(err))
		return errFailed
	}

	if outcome.Delivered {
		out.Success("Success: %s", outcome.Summary())
		return nil
	}
	out.Plain("Failed: %s", outcome.Summary())
	return nil
}
