package gitpatrol

import (
	"runtime/debug"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/gitpatrol/gitpatrol/internal/update"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// selfUpdate replaces the running binary with the latest release and
// returns the version now installed.
func selfUpdate() (string, error) {
	v := version
	// Use build info if tag overridden at build-time
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	ver, err := semver.ParseTolerant(v)
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	// selfupdate still speaks the pre-module semver API.
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(ver.String()), update.Repository)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickDuration parses config values as Go durations; unparsable values
// are skipped.
func pickDuration(cli time.Duration, local, global *string) time.Duration {
	if cli != 0 {
		return cli
	}
	for _, s := range []*string{local, global} {
		if s == nil || strings.TrimSpace(*s) == "" {
			continue
		}
		if d, err := time.ParseDuration(strings.TrimSpace(*s)); err == nil {
			return d
		}
	}
	return 0
}
