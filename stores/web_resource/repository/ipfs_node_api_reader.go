package repository

import (
	"io"
	"strings"
	"time"

	ipfsapi "github.com/ipfs/go-ipfs-api"
	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

type ipfsNodeApiReaderRepo struct {
	shell        *ipfsapi.Shell
	ctxTimeout   time.Duration
	maxBodyBytes int64
}

// NewIpfsNodeApiReaderRepo reads through the http api of an ipfs node, e.g. localhost:5001
func NewIpfsNodeApiReaderRepo(s *ipfsapi.Shell, timeout time.Duration) domain.WebResourceReaderRepository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ipfsNodeApiReaderRepo{shell: s, ctxTimeout: timeout, maxBodyBytes: DefaultMaxBodyBytes}
}

func (r *ipfsNodeApiReaderRepo) Get(c ctx.Ctx, cid string) ([]byte, error) {
	tc, cancel := ctx.WithTimeout(c, r.ctxTimeout)
	defer cancel()
	defer met.BumpTime("get.latency", "kind", "ipfsnode").End()

	resp, err := r.shell.Request("cat", cid).Send(tc)
	if err != nil {
		c.WithField("err", err).Error("shell.Request failed")
		met.BumpSum("get.err", 1, "kind", "ipfsnode", "reason", "request")
		return nil, err
	}
	defer resp.Close()
	if resp.Error != nil {
		c.WithField("resp.Error", resp.Error).Warn("shell.Request failed")
		if strings.Contains(resp.Error.Message, "not found") {
			return nil, xerrors.Errorf("%s: %w", cid, domain.ErrNotFound)
		}
		return nil, resp.Error
	}

	body, err := io.ReadAll(io.LimitReader(resp.Output, r.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > r.maxBodyBytes {
		return nil, xerrors.Errorf("%s: body larger than %d bytes", cid, r.maxBodyBytes)
	}
	return body, nil
}
