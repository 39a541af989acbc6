package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"courtside/cmd/courtside/chat"
	"courtside/internal/config"
	"courtside/internal/logging"
)

// runInteractiveChat launches the TUI with the full pipeline behind it.
func runInteractiveChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	// Live-reload logging settings while the chat runs.
	watcher, err := config.NewWatcher(config.DefaultConfigPath(workspace), func() {
		if err := logging.ReloadConfig(); err != nil {
			logging.BootError("config reload failed: %v", err)
		}
	})
	if err == nil {
		if err := watcher.Start(); err == nil {
			defer watcher.Stop()
		}
	}

	model := chat.New(p.orchestrator, turnTimeout)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	return nil
}
