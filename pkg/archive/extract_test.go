package archive_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/balatro-mod-manager/bmm/pkg/archive"
	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/balatro-mod-manager/bmm/pkg/utils/safepath"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/spf13/afero"
)

const memModsRoot = "/config/Balatro/Mods"

func TestExtract_FlatZip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	data := buildZip(t,
		entry{name: "a.txt", content: "alpha"},
		entry{name: "b.txt", content: "bravo"},
		entry{name: "assets/1x/joker.png", content: "png"},
	)

	target, err := x.Extract(context.Background(), model.ArchiveFormatZip, data, memModsRoot, "CoolMod")
	gt.NoError(t, err)
	gt.Equal(t, target, filepath.Join(memModsRoot, "CoolMod"))

	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "a.txt")), "alpha")
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "b.txt")), "bravo")
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "assets", "1x", "joker.png")), "png")
}

func TestExtract_NestedZip(t *testing.T) {
	// Directory renames need a real filesystem
	modsRoot := filepath.Join(t.TempDir(), "Balatro", "Mods")
	fsys := afero.NewOsFs()
	x := archive.NewExtractor(fsys)

	data := buildZip(t,
		entry{name: "Foo/"},
		entry{name: "Foo/a.txt", content: "alpha"},
		entry{name: "Foo/b.txt", content: "bravo"},
		entry{name: "Foo/lib/util.lua", content: "return {}"},
	)

	target, err := x.Extract(context.Background(), model.ArchiveFormatZip, data, modsRoot, "CoolMod")
	gt.NoError(t, err)
	gt.Equal(t, target, filepath.Join(modsRoot, "CoolMod"))

	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "a.txt")), "alpha")
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "b.txt")), "bravo")
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "lib", "util.lua")), "return {}")
	gt.False(t, exists(t, fsys, filepath.Join(target, "Foo")))
	gt.False(t, exists(t, fsys, filepath.Join(modsRoot, archive.ScratchDirName)))
}

func TestExtract_NestedZipSkipsMacOSMetadata(t *testing.T) {
	modsRoot := filepath.Join(t.TempDir(), "Mods")
	fsys := afero.NewOsFs()
	x := archive.NewExtractor(fsys)

	data := buildZip(t,
		entry{name: "__MACOSX/Foo/._a.txt", content: "resource fork"},
		entry{name: "Foo/a.txt", content: "alpha"},
	)

	target, err := x.Extract(context.Background(), model.ArchiveFormatZip, data, modsRoot, "CoolMod")
	gt.NoError(t, err)

	gt.Equal(t, listFiles(t, fsys, target), []string{"a.txt"})
	gt.False(t, exists(t, fsys, filepath.Join(modsRoot, "__MACOSX")))
}

func TestExtract_NestedZipWithLeadingSlash(t *testing.T) {
	modsRoot := filepath.Join(t.TempDir(), "Mods")
	fsys := afero.NewOsFs()
	x := archive.NewExtractor(fsys)

	data := buildZip(t,
		entry{name: "/Foo/a.txt", content: "alpha"},
		entry{name: "/Foo/lib/b.txt", content: "bravo"},
	)

	target, err := x.Extract(context.Background(), model.ArchiveFormatZip, data, modsRoot, "CoolMod")
	gt.NoError(t, err)
	gt.Equal(t, target, filepath.Join(modsRoot, "CoolMod"))

	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "a.txt")), "alpha")
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "lib", "b.txt")), "bravo")
	gt.False(t, exists(t, fsys, filepath.Join(modsRoot, archive.ScratchDirName)))
}

func TestExtract_EmptyZip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	_, err := x.Extract(context.Background(), model.ArchiveFormatZip, buildZip(t), memModsRoot, "CoolMod")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidState))
}

func TestExtract_Tar(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	data := buildTar(t,
		entry{name: "sub/"},
		entry{name: "sub/x.lua", content: "print('x')"},
	)

	target, err := x.Extract(context.Background(), model.ArchiveFormatTar, data, memModsRoot, "TarMod")
	gt.NoError(t, err)

	// Tar layout is kept as declared, no wrapper stripping
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "sub", "x.lua")), "print('x')")
	gt.Equal(t, listFiles(t, fsys, target), []string{"sub", "sub/x.lua"})
}

func TestExtract_GzipTar(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	data := buildTarGz(t,
		entry{name: "Wrapper/main.lua", content: "-- main"},
		entry{name: "__MACOSX/Wrapper/._main.lua", content: "fork"},
	)

	target, err := x.Extract(context.Background(), model.ArchiveFormatGzipTar, data, memModsRoot, "GzMod")
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "Wrapper", "main.lua")), "-- main")
	gt.False(t, exists(t, fsys, filepath.Join(target, "__MACOSX")))
}

func TestExtract_GzipTarCorrupted(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	_, err := x.Extract(context.Background(), model.ArchiveFormatGzipTar, []byte{0x1f, 0x8b, 0x00}, memModsRoot, "GzMod")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagFileRead))
}

func TestExtract_TarOverwritesExistingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	existing := filepath.Join(memModsRoot, "TarMod", "sub", "x.lua")
	gt.NoError(t, fsys.MkdirAll(filepath.Dir(existing), 0o755))
	gt.NoError(t, afero.WriteFile(fsys, existing, []byte("old content that is longer"), 0o644))

	_, err := x.Extract(context.Background(), model.ArchiveFormatTar,
		buildTar(t, entry{name: "sub/x.lua", content: "new"}), memModsRoot, "TarMod")
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, fsys, existing), "new")
}

func TestExtract_PathTraversal(t *testing.T) {
	tests := []struct {
		name   string
		format model.ArchiveFormat
		data   func(t *testing.T) []byte
	}{
		{
			name:   "flat zip with parent segments",
			format: model.ArchiveFormatZip,
			data: func(t *testing.T) []byte {
				return buildZip(t,
					entry{name: "a.txt", content: "ok"},
					entry{name: "../evil.txt", content: "pwned"},
				)
			},
		},
		{
			name:   "nested zip escaping the scratch directory",
			format: model.ArchiveFormatZip,
			data: func(t *testing.T) []byte {
				return buildZip(t,
					entry{name: "Foo/a.txt", content: "ok"},
					entry{name: "Foo/../../evil.txt", content: "pwned"},
				)
			},
		},
		{
			name:   "tar with parent segments",
			format: model.ArchiveFormatTar,
			data: func(t *testing.T) []byte {
				return buildTar(t,
					entry{name: "ok.lua", content: "ok"},
					entry{name: "../../evil.txt", content: "pwned"},
				)
			},
		},
		{
			name:   "gzip tar with parent segments",
			format: model.ArchiveFormatGzipTar,
			data: func(t *testing.T) []byte {
				return buildTarGz(t, entry{name: "sub/../../evil.txt", content: "pwned"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			modsRoot := filepath.Join(base, "Mods")
			fsys := afero.NewOsFs()
			x := archive.NewExtractor(fsys)

			_, err := x.Extract(context.Background(), tt.format, tt.data(t), modsRoot, "Victim")
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.ErrTagPathTraversal))

			for _, p := range listFiles(t, fsys, base) {
				full := filepath.Join(base, filepath.FromSlash(p))
				gt.True(t, safepath.IsWithin(modsRoot, full) || full == modsRoot)
			}
			gt.False(t, exists(t, fsys, filepath.Join(base, "evil.txt")))
			gt.False(t, exists(t, fsys, filepath.Join(modsRoot, "evil.txt")))
		})
	}
}

func TestExtract_AbsoluteEntryStaysInsideTarget(t *testing.T) {
	fsys := afero.NewMemMapFs()
	x := archive.NewExtractor(fsys)

	target, err := x.Extract(context.Background(), model.ArchiveFormatTar,
		buildTar(t, entry{name: "/etc/passwd", content: "root"}), memModsRoot, "AbsMod")
	gt.NoError(t, err)
	gt.Equal(t, readFile(t, fsys, filepath.Join(target, "etc", "passwd")), "root")
	gt.False(t, exists(t, fsys, "/etc/passwd"))
}

func TestExtract_UnknownFormat(t *testing.T) {
	x := archive.NewExtractor(afero.NewMemMapFs())

	_, err := x.Extract(context.Background(), model.ArchiveFormat(0), []byte("x"), memModsRoot, "Mod")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidState))
}
