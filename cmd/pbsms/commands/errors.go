package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"pbsms/internal/domain"
)

const (
	storeHint   = "To store a Pushbullet API Key please use: PBSMS APIKey=<Pushbullet API Key>"
	noDeviceMsg = "No SMS-capable device found. Please ensure you have an Android device with SMS permissions connected to your Pushbullet account."
	offlineMsg  = "Unable to reach the internet. Please check your connection."
)

// describe turns a send-flow failure into the text shown under "Error:".
func describe(err error) string {
	var (
		te *domain.TimeoutError
		le *domain.DeviceLookupError
		re *domain.RemoteError
		se *domain.StorageError
	)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return "Could not find a stored Pushbullet API key.\nDetails: " + storeHint
	case errors.As(err, &se):
		return "Could not find a stored Pushbullet API key.\nDetails: " + se.Error()
	case errors.As(err, &te):
		return timeoutMessage(te)
	case errors.As(err, &le):
		return fmt.Sprintf("Error retrieving SMS-capable device: %s", capitalize(le.Err.Error()))
	case errors.Is(err, domain.ErrNoDeviceFound):
		return noDeviceMsg
	case errors.As(err, &re):
		return capitalize(re.Error())
	}
	return err.Error()
}

func timeoutMessage(te *domain.TimeoutError) string {
	if !te.Online {
		return offlineMsg
	}
	return capitalize(te.Error()) + "."
}

// inputMessage renders e.g. "Phone number cannot be empty."
func inputMessage(e *domain.InputError) string {
	return capitalize(e.Field) + " " + strings.TrimSuffix(e.Reason, ".") + "."
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
