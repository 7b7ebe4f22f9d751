package app

import (
	"runtime/debug"
	"strings"
)

// version is set at build time with -ldflags "-X pbsms/internal/app.version=1.2.0".
var version string

// Version returns the build version with trailing ".0" segments trimmed.
func Version() string {
	v := version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if v == "" {
		return "dev"
	}
	return trimVersion(v)
}

func trimVersion(v string) string {
	v = strings.TrimPrefix(v, "v")
	if strings.ContainsAny(v, "-+") {
		return v // pre-release or pseudo-version; leave intact
	}
	parts := strings.Split(v, ".")
	for len(parts) > 1 && parts[len(parts)-1] == "0" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}
