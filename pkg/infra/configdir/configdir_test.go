package configdir_test

import (
	"testing"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/infra/configdir"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestStatic(t *testing.T) {
	root, err := configdir.Static("/srv/balatro").ConfigRoot()
	gt.NoError(t, err)
	gt.Equal(t, root, "/srv/balatro")

	_, err = configdir.Static("").ConfigRoot()
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagDirNotFound))
}

func TestOS_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("HOME", "/tmp/home")

	root, err := configdir.OS{}.ConfigRoot()
	gt.NoError(t, err)
	gt.Value(t, root).NotEqual("")
}
