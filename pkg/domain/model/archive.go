package model

// ArchiveFormat is the container format of a downloaded payload, derived from
// its leading bytes
type ArchiveFormat int

const (
	ArchiveFormatZip ArchiveFormat = iota + 1
	ArchiveFormatTar
	ArchiveFormatGzipTar
)

// String returns the format name used in logs and errors
func (f ArchiveFormat) String() string {
	switch f {
	case ArchiveFormatZip:
		return "zip"
	case ArchiveFormatTar:
		return "tar"
	case ArchiveFormatGzipTar:
		return "gzip-tar"
	default:
		return "unknown"
	}
}
