package generator

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/ianaindex"
)

// ReadSource reads a source file and decodes it to UTF-8 according to the
// named character encoding. Tree-sitter parsers operate on UTF-8 only.
func ReadSource(fsys afero.Fs, path, encoding string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return decode(data, encoding)
}

func decode(data []byte, encoding string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return data, nil
	}
	enc, err := ianaindex.IANA.Encoding(encoding)
	if err != nil || enc == nil {
		return nil, errors.Wrapf(ErrInvalidOptions, "option %q: unknown encoding %q", "encoding", encoding)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding as %s", encoding)
	}
	return decoded, nil
}
