package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// Image is a downloaded image.
type Image struct {
	URL         string
	ContentType string
	Data        []byte
}

// Fetcher downloads and caches images.
type Fetcher struct {
	cfg    Config
	client *http.Client
	cache  *lru.Cache[string, Image]
	group  singleflight.Group
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client. Its Timeout is replaced by Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithLogger sets the fetcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher returns a Fetcher with a cache of cfg.CacheSize images.
func NewFetcher(cfg Config, opts ...Option) (*Fetcher, error) {
	cfg = cfg.withDefaults()
	cache, err := lru.New[string, Image](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("media: create cache: %w", err)
	}
	f := &Fetcher{
		cfg:    cfg,
		client: &http.Client{},
		cache:  cache,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	client := *f.client
	client.Timeout = cfg.Timeout
	f.client = &client
	return f, nil
}

// Fetch returns the image at rawURL, from cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Image, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return Image{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Image{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return Image{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	key := u.String()

	if img, ok := f.cache.Get(key); ok {
		return img, nil
	}

	v, err, shared := f.group.Do(key, func() (any, error) {
		img, err := f.download(ctx, key)
		if err != nil {
			return Image{}, err
		}
		f.cache.Add(key, img)
		return img, nil
	})
	if err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "image download failed",
			logger.Component("media"),
			logger.URL(key),
			logger.Error(err),
		)
		return Image{}, err
	}
	if shared {
		f.logger.LogAttrs(ctx, slog.LevelDebug, "image download shared",
			logger.Component("media"),
			logger.URL(key),
		)
	}
	return v.(Image), nil
}

// Len returns the number of cached images.
func (f *Fetcher) Len() int {
	return f.cache.Len()
}

func (f *Fetcher) download(ctx context.Context, key string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return Image{}, errors.Join(ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return Image{}, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if resp.ContentLength > f.cfg.MaxBytes {
		return Image{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return Image{}, errors.Join(ErrFetchFailed, err)
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return Image{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.cfg.MaxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fmt.Errorf("%w: %s", ErrNotAnImage, contentType)
	}

	return Image{URL: key, ContentType: contentType, Data: data}, nil
}
