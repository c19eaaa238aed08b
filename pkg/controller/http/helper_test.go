package http_test

import (
	"context"
	"sync"

	"github.com/balatro-mod-manager/bmm/pkg/domain/model"
)

// mockModUseCase records calls and returns canned results
type mockModUseCase struct {
	mu sync.Mutex

	root        string
	installFunc func(ctx context.Context, req *model.InstallRequest) (*model.InstallResult, error)
	uninstallFn func(ctx context.Context, path string) error
	mods        []*model.InstalledMod

	installCalls   []model.InstallRequest
	uninstallCalls []string
	done           chan struct{}
}

func newMockModUseCase() *mockModUseCase {
	return &mockModUseCase{
		root: "/config/Balatro/Mods",
		done: make(chan struct{}, 8),
	}
}

func (m *mockModUseCase) Install(ctx context.Context, req *model.InstallRequest) (*model.InstallResult, error) {
	m.mu.Lock()
	m.installCalls = append(m.installCalls, *req)
	m.mu.Unlock()
	defer func() { m.done <- struct{}{} }()

	if m.installFunc != nil {
		return m.installFunc(ctx, req)
	}
	return &model.InstallResult{Name: req.Name, Path: m.root + "/" + req.Name}, nil
}

func (m *mockModUseCase) Uninstall(ctx context.Context, path string) error {
	m.mu.Lock()
	m.uninstallCalls = append(m.uninstallCalls, path)
	m.mu.Unlock()

	if m.uninstallFn != nil {
		return m.uninstallFn(ctx, path)
	}
	return nil
}

func (m *mockModUseCase) List(ctx context.Context) ([]*model.InstalledMod, error) {
	return m.mods, nil
}

func (m *mockModUseCase) ModsRoot() (string, error) {
	return m.root, nil
}
