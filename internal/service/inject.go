package service

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/hearth/internal/shell"
)

// Inject adds the block sourcing the entrypoint to the rc file.
// already_injected is reported as an action, not an error.
func (m *Manager) Inject() (*shell.InjectResult, error) {
	inj, err := m.injector()
	if err != nil {
		return nil, fmt.Errorf("inject: %w", err)
	}
	result, err := inj.Inject()
	if err != nil {
		return nil, fmt.Errorf("inject: %w", err)
	}
	m.logger.Info("inject", "rc_file", result.RCFile, "action", result.Action)
	return result, nil
}

// Eject removes hearth's block from the rc file. not_injected is reported
// as an action, not an error.
func (m *Manager) Eject() (*shell.InjectResult, error) {
	inj, err := m.injector()
	if err != nil {
		return nil, fmt.Errorf("eject: %w", err)
	}
	result, err := inj.Eject()
	if err != nil {
		return nil, fmt.Errorf("eject: %w", err)
	}
	m.logger.Info("eject", "rc_file", result.RCFile, "action", result.Action)
	return result, nil
}

func (m *Manager) injector() (*shell.Injector, error) {
	rc, err := m.RCFile()
	if err != nil {
		return nil, err
	}
	return shell.NewInjector(rc, m.EntrypointPath(),
		shell.WithDryRun(m.cfg.DryRun),
		shell.WithBackup(m.cfg.Backup),
	), nil
}
