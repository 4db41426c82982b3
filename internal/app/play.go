package app

import (
	"context"

	"skillarcade/internal/levels"
	"skillarcade/internal/schedule"
	"skillarcade/internal/session"
	"skillarcade/internal/ui"

	tea "charm.land/bubbletea/v2"
)

// Play runs an interactive session as a Bubble Tea program until it
// finishes, the player quits, or ctx is cancelled. Signals are left to ctx.
func (a *App) Play(ctx context.Context, cfg levels.Config, opts ...tea.ProgramOption) (session.Result, error) {
	sched := schedule.NewProgram()
	ctrl, err := a.NewSession(ctx, cfg, sched, nil)
	if err != nil {
		return session.Result{}, err
	}
	model := ui.NewPlay(ctrl, sched, a.Theme(), a.cfg.Gameplay.FrameRate)
	opts = append([]tea.ProgramOption{tea.WithoutSignalHandler()}, opts...)
	runErr := model.Run(ctx, opts...)
	if !model.Finished() {
		// The program stopped without ending the session.
		ctrl.Exit()
	}
	if runErr != nil {
		return ctrl.Result(), runErr
	}
	return ctrl.Result(), ctx.Err()
}
