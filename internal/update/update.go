package update

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/blang/semver/v4"
	"github.com/gitpatrol/gitpatrol/internal/config"
)

const (
	// Repository is the owner/name releases are published under.
	Repository    = "gitpatrol/gitpatrol"
	latestURL     = "https://api.github.com/repos/" + Repository + "/releases/latest"
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// Checker looks up the newest published release. The zero value is not
// usable; call NewChecker.
type Checker struct {
	URL      string
	Client   *http.Client
	CacheDir string
}

func NewChecker() *Checker {
	return &Checker{
		URL:      latestURL,
		Client:   &http.Client{Timeout: 2 * time.Second},
		CacheDir: config.Dir(),
	}
}

func (c *Checker) loadCache() (cache, error) {
	var cc cache
	if c.CacheDir == "" {
		return cc, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		return cc, err
	}
	_ = json.Unmarshal(b, &cc)
	return cc, nil
}

func (c *Checker) saveCache(cc cache) {
	if c.CacheDir == "" {
		return
	}
	_ = os.MkdirAll(c.CacheDir, 0755)
	b, _ := json.MarshalIndent(cc, "", "  ")
	_ = os.WriteFile(filepath.Join(c.CacheDir, cacheFileName), b, 0644)
}

func (c *Checker) latestOnline(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "gitpatrol-updater")
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("release lookup: " + resp.Status)
	}
	var obj struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", err
	}
	if obj.TagName != "" {
		return obj.TagName, nil
	}
	return obj.Name, nil
}

// Check returns the latest known version and whether it is newer than
// current. Results are cached for a day and the check is skipped in CI.
func (c *Checker) Check(ctx context.Context, current string) (string, bool, error) {
	if os.Getenv("CI") != "" {
		return "", false, nil
	}
	cc, _ := c.loadCache()
	latest := cc.Latest
	if time.Since(cc.LastChecked) > cacheTTL || latest == "" {
		v, err := c.latestOnline(ctx)
		if err != nil {
			if latest == "" {
				return "", false, err
			}
		} else {
			latest = v
			c.saveCache(cache{LastChecked: time.Now(), Latest: v})
		}
	}
	return latest, IsNewer(latest, current), nil
}

// IsNewer reports whether latest is a strictly greater semantic version
// than current. Unparseable versions, such as development builds, never
// compare as newer.
func IsNewer(latest, current string) bool {
	l, err := semver.ParseTolerant(latest)
	if err != nil {
		return false
	}
	c, err := semver.ParseTolerant(current)
	if err != nil {
		return false
	}
	return l.GT(c)
}
