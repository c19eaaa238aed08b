// Package archive detects the container format of a downloaded mod and
// unpacks it into the mods root, normalizing the on-disk layout.
package archive

import (
	"bytes"
	"encoding/hex"

	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// Local file header, empty archive (end of central directory) and spanned archive markers
	zipMagics = [][]byte{
		{'P', 'K', 0x03, 0x04},
		{'P', 'K', 0x05, 0x06},
		{'P', 'K', 0x07, 0x08},
	}
	gzipMagic = []byte{0x1f, 0x8b}
	tarMagic  = []byte("ustar")
)

const (
	tarMagicOffset = 257
	signatureLen   = 8
)

// Classify sniffs the leading bytes of data. The payload behind a gzip
// header is assumed to be a tar stream and is not inspected further.
func Classify(data []byte) (model.ArchiveFormat, error) {
	for _, magic := range zipMagics {
		if bytes.HasPrefix(data, magic) {
			return model.ArchiveFormatZip, nil
		}
	}

	if bytes.HasPrefix(data, gzipMagic) {
		return model.ArchiveFormatGzipTar, nil
	}

	if len(data) >= tarMagicOffset+len(tarMagic) &&
		bytes.Equal(data[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic) {
		return model.ArchiveFormatTar, nil
	}

	sig := hex.EncodeToString(data[:min(len(data), signatureLen)])
	return 0, goerr.New("unsupported archive format",
		goerr.T(types.ErrTagUnsupportedFormat),
		goerr.V(types.KeySignature, sig),
		goerr.V("size", len(data)),
	)
}
