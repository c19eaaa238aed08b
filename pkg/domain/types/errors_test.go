package types_test

import (
	"errors"
	"testing"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestErrorTags_SurviveWrapping(t *testing.T) {
	base := goerr.New("path traversal attempt detected",
		goerr.T(types.ErrTagPathTraversal),
		goerr.V(types.KeyPath, "/config/Balatro/escape"),
	)
	wrapped := goerr.Wrap(
		goerr.Wrap(base, "archive entry escapes extraction root", goerr.V(types.KeyEntry, "../escape")),
		"failed to extract mod archive",
	)

	gt.True(t, goerr.HasTag(wrapped, types.ErrTagPathTraversal))
	gt.False(t, goerr.HasTag(wrapped, types.ErrTagNetwork))
	gt.Equal(t, goerr.Unwrap(wrapped).Values()[types.KeyPath], any("/config/Balatro/escape"))
}

func TestErrorTags_Untagged(t *testing.T) {
	gt.False(t, goerr.HasTag(errors.New("plain"), types.ErrTagInvalidState))
}
