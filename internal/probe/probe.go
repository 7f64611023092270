// Package probe reads image dimensions from local files or remote URLs by
// decoding only the image header. Probing is best effort and never part of
// building or validating a request.
package probe

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/json2video/internal/logger"
)

var ErrUnsupported = errors.New("unsupported image format")

const (
	DefaultMaxBytes = 64 * 1024
	DefaultTimeout  = 10 * time.Second
)

// Dimensions of one probed source.
type Dimensions struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Result pairs a source with its dimensions or the reason probing failed.
type Result struct {
	Dimensions
	Err error `json:"-"`
}

type Prober struct {
	client   *resty.Client
	timeout  time.Duration
	maxBytes int64
	log      logger.Logger
}

type Option func(*Prober)

// WithMaxBytes caps how much of each source is read.
func WithMaxBytes(n int64) Option {
	return func(p *Prober) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// WithTimeout bounds each request. It applies whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying transport client. The prober's
// timeout overrides the client's own.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Prober) {
		if hc != nil {
			p.client = resty.NewWithClient(hc)
		}
	}
}

// WithLogger pins the prober's logger. Without it the logger carried by the
// probing context is used.
func WithLogger(l logger.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.log = l
		}
	}
}

func New(opts ...Option) *Prober {
	p := &Prober{
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = resty.New()
	}
	p.client.SetTimeout(p.timeout)
	return p
}

// Probe returns the dimensions of src, an http(s) URL or a local path.
func (p *Prober) Probe(ctx context.Context, src string) (Dimensions, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Dimensions{}, errors.New("probe: empty source")
	}

	var (
		r   io.ReadCloser
		err error
	)
	if isRemote(src) {
		r, err = p.fetch(ctx, src)
	} else {
		r, err = os.Open(src)
	}
	if err != nil {
		return Dimensions{Source: src}, fmt.Errorf("probe %s: %w", src, err)
	}
	defer r.Close()

	cfg, format, err := image.DecodeConfig(io.LimitReader(r, p.maxBytes))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Dimensions{Source: src}, fmt.Errorf("probe %s: %w", src, ErrUnsupported)
		}
		return Dimensions{Source: src}, fmt.Errorf("probe %s: decode header: %w", src, err)
	}

	p.logFor(ctx).Debug("probed", "source", src, "format", format, "width", cfg.Width, "height", cfg.Height)
	return Dimensions{Source: src, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// fetch asks for the first maxBytes of src. Servers that ignore ranges
// answer 200 with the full body, which is then read only up to the limit.
func (p *Prober) fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Range", fmt.Sprintf("bytes=0-%d", p.maxBytes-1)).
		SetDoNotParseResponse(true).
		Get(src)
	if err != nil {
		return nil, err
	}
	body := resp.RawBody()
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusPartialContent:
		return body, nil
	default:
		if body != nil {
			body.Close()
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
}

// All probes every source with at most workers requests in flight.
// Results keep source order; one failure does not stop the others.
func (p *Prober) All(ctx context.Context, sources []string, workers int) []Result {
	results := make([]Result, len(sources))
	if workers <= 0 {
		workers = 4
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, src := range sources {
		i, src := i, src // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			dims, err := p.Probe(ctx, src)
			if dims.Source == "" {
				dims.Source = src
			}
			results[i] = Result{Dimensions: dims, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Prober) logFor(ctx context.Context) logger.Logger {
	if p.log != nil {
		return p.log
	}
	return logger.FromContext(ctx)
}

func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
