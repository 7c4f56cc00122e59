package redis

import (
	"bytes"
	"compress/gzip"
	"io"
)

var gzipMagic = []byte{0x1f, 0x8b}

func zip(val []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)
	if _, err := w.Write(val); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unzip passes through values that were not written zipped
func unzip(val []byte) ([]byte, error) {
	if !bytes.HasPrefix(val, gzipMagic) {
		return val, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(val))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
