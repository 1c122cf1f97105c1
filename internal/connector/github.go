package connector

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIURL    = "https://api.github.com"
	DefaultTokenEnv  = "GITHUB_TOKEN"
	DefaultQueueSize = 32
	userAgent        = "GitPatrol-Scanner"
	acceptHeader     = "application/vnd.github.v3+json"
	acceptRaw        = "application/vnd.github.raw"
	maxErrorBody     = 64 << 10
)

// GitHub reads a repository through the GitHub contents API. Construction
// performs no network calls.
type GitHub struct {
	owner     string
	repo      string
	apiURL    string
	token     string
	tokenEnv  string
	base      *http.Client
	client    *http.Client
	workers   int
	queueSize int
	strict    bool
}

// Option customizes a GitHub connector.
type Option func(*GitHub)

// WithToken sets the API token explicitly instead of reading it from the
// environment.
func WithToken(token string) Option { return func(g *GitHub) { g.token = token } }

// WithTokenEnv names the environment variable the token is read from.
func WithTokenEnv(name string) Option { return func(g *GitHub) { g.tokenEnv = name } }

// WithBaseURL points the connector at a different API root, such as a
// GitHub Enterprise server.
func WithBaseURL(u string) Option {
	return func(g *GitHub) { g.apiURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the client used for requests. The token transport is
// layered on top of it.
func WithHTTPClient(c *http.Client) Option { return func(g *GitHub) { g.base = c } }

// WithListWorkers sets how many directory listings may be in flight. One
// worker gives a plain depth-first walk.
func WithListWorkers(n int) Option {
	return func(g *GitHub) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithQueueSize bounds the number of discovered paths buffered ahead of the
// consumer.
func WithQueueSize(n int) Option {
	return func(g *GitHub) {
		if n > 0 {
			g.queueSize = n
		}
	}
}

// WithStrictListing makes any failed directory listing abort the walk.
// By default only the root listing is fatal.
func WithStrictListing(strict bool) Option { return func(g *GitHub) { g.strict = strict } }

// NewGitHub parses a repository URL of the form https://github.com/owner/repo.
// Path segments after the repository name are ignored.
func NewGitHub(rawURL string, opts ...Option) (*GitHub, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, &ConstructionError{Target: rawURL, Err: ErrInvalidURL}
	}
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) < 2 {
		return nil, &ConstructionError{Target: rawURL, Err: ErrInvalidURL}
	}
	g := &GitHub{
		owner:     segs[0],
		repo:      strings.TrimSuffix(segs[1], ".git"),
		apiURL:    DefaultAPIURL,
		tokenEnv:  DefaultTokenEnv,
		workers:   1,
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.token == "" && g.tokenEnv != "" {
		g.token = os.Getenv(g.tokenEnv)
	}
	if g.base == nil {
		g.base = &http.Client{Timeout: 30 * time.Second}
	}
	g.client = g.base
	if g.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, g.base)
		g.client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.token}))
		g.client.Timeout = g.base.Timeout
	}
	return g, nil
}

func (g *GitHub) Kind() Kind { return KindGitHub }

// Repository returns "owner/repo".
func (g *GitHub) Repository() string { return g.owner + "/" + g.repo }

// Authenticated reports whether requests carry a token.
func (g *GitHub) Authenticated() bool { return g.token != "" }

func (g *GitHub) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

type fileResponse struct {
	Content  *string `json:"content"`
	Encoding string  `json:"encoding"`
}

// Enumerate walks the repository in a background producer and yields paths
// as they are discovered. Abandoning the sequence stops the producer.
func (g *GitHub) Enumerate(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		paths := make(chan string, g.queueSize)
		errc := make(chan error, 1)
		go func() {
			defer close(paths)
			if err := g.walk(ctx, paths); err != nil {
				errc <- err
			}
		}()

		for p := range paths {
			if !yield(p, nil) {
				return
			}
		}
		select {
		case err := <-errc:
			yield("", err)
		default:
		}
	}
}

type listResult struct {
	dir     string
	entries []contentEntry
	err     error
}

// walk pops directories off a LIFO stack and lists them on a pool of
// g.workers goroutines. Files are sent to out in listing order.
func (g *GitHub) walk(ctx context.Context, out chan<- string) error {
	results := make(chan listResult, g.workers)
	pool, err := ants.NewPoolWithFunc(g.workers, func(i interface{}) {
		dir := i.(string)
		entries, err := g.listDir(ctx, dir)
		results <- listResult{dir: dir, entries: entries, err: err}
	})
	if err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	log := logrus.WithField("repo", g.Repository())
	stack := []string{""}
	inflight, found := 0, 0
	for len(stack) > 0 || inflight > 0 {
		for len(stack) > 0 && inflight < g.workers {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if err := pool.Invoke(dir); err != nil {
				return fmt.Errorf("pool: %w", err)
			}
			inflight++
		}

		var r listResult
		select {
		case r = <-results:
		case <-ctx.Done():
			return ctx.Err()
		}
		inflight--

		if r.err != nil {
			if g.listingFatal(r) {
				return r.err
			}
			log.WithFields(logrus.Fields{"dir": r.dir, "error": r.err}).Warn("skipping directory")
			continue
		}
		for _, e := range r.entries {
			switch e.Type {
			case "dir":
				stack = append(stack, e.Path)
			case "file":
				found++
				select {
				case out <- e.Path:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	if found == 0 {
		return ErrNoFiles
	}
	return nil
}

func (g *GitHub) listingFatal(r listResult) bool {
	if g.strict || r.dir == "" {
		return true
	}
	return errors.Is(r.err, ErrRateLimited) ||
		errors.Is(r.err, context.Canceled) ||
		errors.Is(r.err, context.DeadlineExceeded)
}

// listDir returns every entry of dir, following pagination links.
func (g *GitHub) listDir(ctx context.Context, dir string) ([]contentEntry, error) {
	var all []contentEntry
	next := g.contentsURL(dir)
	for next != "" {
		resp, err := g.get(ctx, next)
		if err != nil {
			return nil, err
		}
		if err := g.classify(resp, dir); err != nil {
			resp.Body.Close()
			return nil, err
		}
		var page []contentEntry
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode listing of %q: %w", dir, err)
		}
		all = append(all, page...)
		next = nextLink(resp.Header.Get("Link"))
	}
	return all, nil
}

// Fetch downloads one file and decodes its base64 content. Files the API
// declines to inline (encoding "none", sent for blobs over 1 MB) are fetched
// again through the raw media type.
func (g *GitHub) Fetch(ctx context.Context, path string) (string, error) {
	resp, err := g.get(ctx, g.contentsURL(path))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := g.classify(resp, path); err != nil {
		return "", err
	}
	var fr fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	if fr.Encoding != "" && fr.Encoding != "base64" {
		return g.fetchRaw(ctx, path)
	}
	if fr.Content == nil {
		return "", fmt.Errorf("%s: %w", path, ErrNoContent)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(*fr.Content)
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", path, ErrInvalidEncoding, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	return string(b), nil
}

func (g *GitHub) fetchRaw(ctx context.Context, path string) (string, error) {
	resp, err := g.request(ctx, g.contentsURL(path), acceptRaw)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := g.classify(resp, path); err != nil {
		return "", err
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrNoContent)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	return string(b), nil
}

// HasManifest probes for package.json at the repository root.
func (g *GitHub) HasManifest(ctx context.Context) (bool, error) {
	resp, err := g.get(ctx, g.contentsURL(ManifestFile))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := g.classify(resp, ManifestFile); err != nil {
		return false, err
	}
	return true, nil
}

func (g *GitHub) contentsURL(path string) string {
	u := fmt.Sprintf("%s/repos/%s/%s/contents", g.apiURL, url.PathEscape(g.owner), url.PathEscape(g.repo))
	if path == "" {
		return u
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return u + "/" + strings.Join(segs, "/")
}

func (g *GitHub) get(ctx context.Context, u string) (*http.Response, error) {
	return g.request(ctx, u, acceptHeader)
}

func (g *GitHub) request(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	return g.client.Do(req)
}

// classify maps a non-success response to an error. The body is consumed
// only on failure.
func (g *GitHub) classify(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := string(body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		if path == "" {
			return fmt.Errorf("%w: repository %s", ErrNotFound, g.Repository())
		}
		return fmt.Errorf("%w: path %s in %s", ErrNotFound, path, g.Repository())
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && (strings.Contains(strings.ToLower(text), "rate limit") || resp.Header.Get("X-RateLimit-Remaining") == "0"):
		return ErrRateLimited
	case resp.StatusCode == http.StatusForbidden:
		hint := ""
		if !g.Authenticated() {
			hint = fmt.Sprintf(" (repository may be private, set %s if you have access)", g.tokenEnv)
		}
		return fmt.Errorf("%w: %s%s", ErrAccessDenied, g.Repository(), hint)
	default:
		return &APIError{StatusCode: resp.StatusCode, Body: text}
	}
}

// nextLink extracts the rel="next" target from a Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		target := strings.TrimSpace(segs[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, p := range segs[1:] {
			if strings.TrimSpace(p) == `rel="next"` {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}
