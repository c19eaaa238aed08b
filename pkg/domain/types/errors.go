package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures of the install/uninstall pipeline. The
// offending path, url or detail is attached to the error as a goerr value
// under the keys below.
var (
	ErrTagNetwork           = goerr.NewTag("network_error")
	ErrTagUnsupportedFormat = goerr.NewTag("unsupported_format")
	ErrTagDirNotFound       = goerr.NewTag("dir_not_found")
	ErrTagDirCreate         = goerr.NewTag("dir_create_failure")
	ErrTagFileRead          = goerr.NewTag("file_read_failure")
	ErrTagFileWrite         = goerr.NewTag("file_write_failure")
	ErrTagPathTraversal     = goerr.NewTag("path_traversal")
	ErrTagPathValidation    = goerr.NewTag("path_validation")
	ErrTagInvalidState      = goerr.NewTag("invalid_state")
)

// Keys of values attached to tagged errors
const (
	KeyPath      = "path"
	KeyURL       = "url"
	KeySignature = "signature"
	KeyDetail    = "detail"
	KeyStatus    = "status"
	KeyEntry     = "entry"
)
