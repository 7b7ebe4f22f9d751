package pushbullet

import "pbsms/internal/domain"

// SelectSMSDevice returns the iden of the first active device with SMS support.
func SelectSMSDevice(devices []domain.Device) (string, error) {
	for _, d := range devices {
		if d.Eligible() {
			return d.Iden, nil
		}
	}
	return "", domain.ErrNoDeviceFound
}
