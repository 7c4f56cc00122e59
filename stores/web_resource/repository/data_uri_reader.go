package repository

import (
	"encoding/base64"
	"net/url"
	"strings"

	"golang.org/x/xerrors"

	"github.com/closet-labs/marketapi/base/ctx"
	"github.com/closet-labs/marketapi/domain"
)

const dataUriSchema = "data:"

type dataUriReaderRepo struct {
}

func NewDataUriReaderRepo() domain.WebResourceReaderRepository {
	return &dataUriReaderRepo{}
}

func (r *dataUriReaderRepo) Get(_ ctx.Ctx, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, dataUriSchema) {
		return nil, xerrors.Errorf("invalid data uri: %w", domain.ErrUnsupportedSchema)
	}
	// data:[<mediatype>][;base64],<data>
	parts := strings.SplitN(strings.TrimPrefix(uri, dataUriSchema), ",", 2)
	if len(parts) < 2 || len(parts[1]) == 0 {
		return nil, xerrors.Errorf("no data part provided: %w", domain.ErrBadParamInput)
	}

	if strings.HasSuffix(parts[0], ";base64") {
		data, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			// some minters drop the padding
			return base64.RawStdEncoding.DecodeString(strings.TrimRight(parts[1], "="))
		}
		return data, nil
	}

	text, err := url.PathUnescape(parts[1])
	if err != nil {
		// a bare % in plain text, keep it as is
		return []byte(parts[1]), nil
	}
	return []byte(text), nil
}
