package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/platforms"
)

func TestCopyExtraResourcesSingleAndCollection(t *testing.T) {
	cfg, fsys := memConfig(t)
	require.NoError(t, fsys.MkdirAll("/assets", 0755))
	require.NoError(t, fsys.WriteFile("/assets/license.txt", []byte("MIT"), 0644))
	require.NoError(t, fsys.WriteFile("/assets/icon.png", []byte("png"), 0644))

	// A single resource and a one-element collection behave identically
	cfg.ExtraResources = []string{"/assets/license.txt"}
	p, err := New(cfg, Options{FS: fsys})
	require.NoError(t, err)
	final, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, exists(fsys, final+"/resources/license.txt"))

	cfg2, fsys2 := memConfig(t)
	require.NoError(t, fsys2.MkdirAll("/assets", 0755))
	require.NoError(t, fsys2.WriteFile("/assets/license.txt", []byte("MIT"), 0644))
	require.NoError(t, fsys2.WriteFile("/assets/icon.png", []byte("png"), 0644))
	cfg2.ExtraResources = []string{"/assets/license.txt", "/assets/icon.png"}

	p2, err := New(cfg2, Options{FS: fsys2})
	require.NoError(t, err)
	final2, err := p2.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, exists(fsys2, final2+"/resources/license.txt"))
	assert.True(t, exists(fsys2, final2+"/resources/icon.png"))
}

func TestCopyExtraResourcesEmptyIsNoop(t *testing.T) {
	cfg, fsys := memConfig(t)
	p, err := New(cfg, Options{FS: fsys})
	require.NoError(t, err)

	assert.NoError(t, p.CopyExtraResources(context.Background()))
}

func TestCopyExtraResourcesMissingSource(t *testing.T) {
	cfg, fsys := memConfig(t)
	cfg.ExtraResources = []string{"/assets/missing.txt"}

	p, err := New(cfg, Options{FS: fsys})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrExtraCopy))
}

func TestCopyExtraResourcesDirectory(t *testing.T) {
	cfg, fsys := memConfig(t)
	require.NoError(t, fsys.MkdirAll("/assets/locales", 0755))
	require.NoError(t, fsys.WriteFile("/assets/locales/en.json", []byte("{}"), 0644))
	cfg.ExtraResources = []string{"/assets/locales"}

	p, err := New(cfg, Options{FS: fsys})
	require.NoError(t, err)
	final, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, exists(fsys, final+"/resources/locales/en.json"))
}

func TestRenameRuntimeBinary(t *testing.T) {
	cfg, fsys := memConfig(t)
	plat, err := platforms.ForTarget("linux", "myapp")
	require.NoError(t, err)

	p, err := New(cfg, Options{FS: fsys})
	require.NoError(t, err)
	require.NoError(t, p.moveTemplate(context.Background()))

	require.NoError(t, p.RenameRuntimeBinary(plat))
	staging := "/tmp/staging/linux-amd64/myapp-linux-amd64"
	assert.True(t, exists(fsys, staging+"/myapp"))
	assert.False(t, exists(fsys, staging+"/electron"))
}

func TestRenameRuntimeBinaryAfterRelocateRejected(t *testing.T) {
	cfg, fsys := memConfig(t)
	plat, err := platforms.ForTarget("linux", "myapp")
	require.NoError(t, err)

	p, err := New(cfg, Options{FS: fsys, Platform: plat})
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	err = p.RenameRuntimeBinary(plat)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorCode(err, apperrors.ErrInternal))
}
