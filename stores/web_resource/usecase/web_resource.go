package usecase

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/xerrors"

	bCtx "github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/base/log"
	"github.com/closet-labs/marketapi/domain"
)

type WebResourceUseCaseCfg struct {
	HttpReader domain.WebResourceReaderRepository
	// IpfsReaders are tried in order, typically a local node first and then public gateways
	IpfsReaders   []domain.WebResourceReaderRepository
	DataUriReader domain.WebResourceReaderRepository
	ArUriReader   domain.WebResourceReaderRepository
}

type webResourceUseCase struct {
	httpReader    domain.WebResourceReaderRepository
	ipfsReaders   []domain.WebResourceReaderRepository
	dataUriReader domain.WebResourceReaderRepository
	arUriReader   domain.WebResourceReaderRepository
}

func NewWebResourceUseCase(cfg *WebResourceUseCaseCfg) domain.WebResourceUseCase {
	return &webResourceUseCase{
		httpReader:    cfg.HttpReader,
		ipfsReaders:   cfg.IpfsReaders,
		dataUriReader: cfg.DataUriReader,
		arUriReader:   cfg.ArUriReader,
	}
}

func (u *webResourceUseCase) Get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	return u.get(c, strings.TrimSpace(rawUrl))
}

func (u *webResourceUseCase) GetJson(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	data, err := u.Get(c, rawUrl)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		c.WithFields(log.Fields{
			"url": rawUrl,
		}).Warn("invalid json")
		return nil, domain.ErrInvalidJsonFormat
	}

	return data, nil
}

func (u *webResourceUseCase) get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	pUrl, err := url.Parse(rawUrl)
	if err != nil {
		c.WithFields(log.Fields{
			"url": rawUrl,
			"err": err,
		}).Warn("failed to parse url")
		return nil, xerrors.Errorf("%s: %w", err, domain.ErrBadParamInput)
	}

	switch pUrl.Scheme {
	case "https", "http":
		data, err = u.httpReader.Get(c, rawUrl)
	case "ipfs":
		ipfsUrl := strings.TrimPrefix(rawUrl, "ipfs://")
		ipfsUrl = strings.TrimPrefix(ipfsUrl, "ipfs/")
		data, err = u.getIpfs(c, ipfsUrl)
	case "data":
		data, err = u.dataUriReader.Get(c, rawUrl)
	case "ar":
		data, err = u.arUriReader.Get(c, rawUrl)
	default:
		return nil, domain.ErrUnsupportedSchema
	}

	if err == nil {
		return data, nil
	}

	if pUrl.Scheme == "https" || pUrl.Scheme == "http" {
		if ipfsUrl := getIpfsUrl(rawUrl); len(ipfsUrl) > 0 {
			c.WithFields(log.Fields{
				"url":     rawUrl,
				"ipfsUrl": ipfsUrl,
			}).Info("falling back to ipfs")
			return u.get(c, ipfsUrl)
		}
	}

	c.WithFields(log.Fields{
		"schema": pUrl.Scheme,
		"url":    rawUrl,
		"err":    err,
	}).Warn("failed to fetch")
	return nil, err
}

func (u *webResourceUseCase) getIpfs(c bCtx.Ctx, cid string) ([]byte, error) {
	err := xerrors.Errorf("no ipfs reader: %w", domain.ErrUnsupportedSchema)
	for i, r := range u.ipfsReaders {
		var data []byte
		if data, err = r.Get(c, cid); err == nil {
			return data, nil
		}
		c.WithFields(log.Fields{"cid": cid, "reader": i, "err": err}).Debug("ipfs reader failed, try next")
	}
	return nil, err
}

var (
	fixedIpfsPrefixes = []string{
		"https://gateway.pinata.cloud/ipfs/",
		"https://ipfs.io/ipfs/",
		"https://cloudflare-ipfs.com/ipfs/",
		"https://nftstorage.link/ipfs/",
		"https://dweb.link/ipfs/",
	}
	dedicatedPinataRegex = regexp.MustCompile(`^https://[^/]+\.mypinata\.cloud/ipfs/`)
	// https://<cid>.ipfs.nftstorage.link/<path>, the usual shape of metaplex uploads
	subdomainGatewayRegex = regexp.MustCompile(`^https?://((?:Qm|bafy)[a-zA-Z0-9]+)\.ipfs\.[^/]+(/.*)?$`)
)

// getIpfsUrl maps a known gateway url to an ipfs:// uri, or "" when it is not one
func getIpfsUrl(url string) string {
	const ipfsPrefix = "ipfs://"

	for _, p := range fixedIpfsPrefixes {
		if strings.HasPrefix(url, p) {
			return strings.Replace(url, p, ipfsPrefix, 1)
		}
	}
	if dedicatedPinataRegex.MatchString(url) {
		return dedicatedPinataRegex.ReplaceAllLiteralString(url, ipfsPrefix)
	}
	if m := subdomainGatewayRegex.FindStringSubmatch(url); m != nil {
		return ipfsPrefix + m[1] + m[2]
	}
	return ""
}
