package repository

import (
	"io"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/base/metrics"
	"github.com/closet-labs/marketapi/domain"
)

// DefaultMaxBodyBytes caps a metadata document. Images are never read through here.
const DefaultMaxBodyBytes = 4 << 20

// DefaultTimeout applies when a reader is configured without a timeout
const DefaultTimeout = 10 * time.Second

var (
	met = metrics.New("webresource")
)

type HttpReaderCfg struct {
	Client  *http.Client
	Timeout time.Duration
	Headers map[string]string
	// MaxBodyBytes bounds the body read, DefaultMaxBodyBytes when 0
	MaxBodyBytes int64
}

type httpReaderRepo struct {
	client       *http.Client
	ctxTimeout   time.Duration
	headers      map[string]string
	maxBodyBytes int64
	// kind tags metrics and logs
	kind string
}

func newHttpReader(cfg *HttpReaderCfg, kind string) *httpReaderRepo {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	max := cfg.MaxBodyBytes
	if max <= 0 {
		max = DefaultMaxBodyBytes
	}
	return &httpReaderRepo{
		client:       client,
		ctxTimeout:   timeout,
		headers:      cfg.Headers,
		maxBodyBytes: max,
		kind:         kind,
	}
}

func NewHttpReaderRepo(cfg *HttpReaderCfg) domain.WebResourceReaderRepository {
	return newHttpReader(cfg, "http")
}

func (r *httpReaderRepo) Get(c bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(c, r.ctxTimeout)
	defer cancel()
	defer met.BumpTime("get.latency", "kind", r.kind).End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{"url": url, "err": err}).Warn("failed with request")
		met.BumpSum("get.err", 1, "kind", r.kind, "reason", "request")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, xerrors.Errorf("%s: %w", url, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Warn("resp.StatusCode != 200")
		met.BumpSum("get.err", 1, "kind", r.kind, "reason", "status")
		return nil, xerrors.Errorf("resp.StatusCode %d != 200", resp.StatusCode)
	}

	// one extra byte tells a body at the limit from one above it
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodyBytes+1))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	if int64(len(body)) > r.maxBodyBytes {
		return nil, xerrors.Errorf("%s: body larger than %d bytes", url, r.maxBodyBytes)
	}
	return body, nil
}
