package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	coreapp "i18nscan/internal/core/app"
	"i18nscan/internal/data/history"
)

func runUI(ctx context.Context, app *coreapp.App, initial coreapp.Update, trend *history.TrendReport) error {
	m := initialModel(app.Paths.ProjectRoot, trend)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	app.SetUpdateHandler(func(update coreapp.Update) {
		p.Send(updateMsg{update: update})
	})
	defer app.SetUpdateHandler(nil)

	go func() {
		p.Send(updateMsg{update: initial})
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
