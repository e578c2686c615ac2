package bootstrap

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "pmprep/internal/modules/auth/adapter/in"
	authoutadapter "pmprep/internal/modules/auth/adapter/out"
	authservice "pmprep/internal/modules/auth/service"
	authusecase "pmprep/internal/modules/auth/usecase"
	billinginadapter "pmprep/internal/modules/billing/adapter/in"
	billingoutadapter "pmprep/internal/modules/billing/adapter/out"
	billingusecase "pmprep/internal/modules/billing/usecase"
	exporterinadapter "pmprep/internal/modules/exporter/adapter/in"
	exporteroutadapter "pmprep/internal/modules/exporter/adapter/out"
	exporterservice "pmprep/internal/modules/exporter/service"
	exporterusecase "pmprep/internal/modules/exporter/usecase"
	historyinadapter "pmprep/internal/modules/history/adapter/in"
	historyoutadapter "pmprep/internal/modules/history/adapter/out"
	historyusecase "pmprep/internal/modules/history/usecase"
	interviewinadapter "pmprep/internal/modules/interview/adapter/in"
	interviewoutadapter "pmprep/internal/modules/interview/adapter/out"
	interviewin "pmprep/internal/modules/interview/port/in"
	interviewusecase "pmprep/internal/modules/interview/usecase"
	usageinadapter "pmprep/internal/modules/usage/adapter/in"
	usageoutadapter "pmprep/internal/modules/usage/adapter/out"
	usageservice "pmprep/internal/modules/usage/service"
	usageusecase "pmprep/internal/modules/usage/usecase"
	voiceinadapter "pmprep/internal/modules/voice/adapter/in"
	voiceoutadapter "pmprep/internal/modules/voice/adapter/out"
	voiceservice "pmprep/internal/modules/voice/service"
	voiceusecase "pmprep/internal/modules/voice/usecase"
	"pmprep/internal/platform/api"
	"pmprep/internal/platform/clock"
	"pmprep/internal/platform/config"
	"pmprep/internal/platform/debuglog"
	"pmprep/internal/platform/fingerprint"
	"pmprep/internal/platform/launcher"
	"pmprep/internal/platform/localstore"
	uiapp "pmprep/internal/ui/app"
)

type App struct {
	InterviewCLI interviewinadapter.CLIHandler
	UsageCLI     usageinadapter.CLIHandler
	AuthCLI      authinadapter.CLIHandler
	HistoryCLI   historyinadapter.CLIHandler
	VoiceCLI     voiceinadapter.CLIHandler
	BillingCLI   billinginadapter.CLIHandler
	ExporterCLI  exporterinadapter.CLIHandler

	// Updates is the interview module's background state stream, consumed
	// by the TUI only.
	Updates <-chan interviewin.Update

	closers []func() error
}

func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var closers []func() error

	log, closeLog, err := debuglog.Open(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	closers = append(closers, closeLog)

	store, err := localstore.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	closers = append(closers, store.Close)

	// The HTTP client and the auth session reference each other: the client
	// reads the current token from the session, and a 401 forces the session
	// to log out. Late binding through closures breaks the construction cycle.
	var session *authservice.Session
	client := api.New(cfg.BaseURL, cfg.RequestTimeout,
		func() string {
			if session == nil {
				return ""
			}
			return session.Token()
		},
		func() {
			if session != nil {
				session.ForceLogout()
			}
		},
	)
	session = authservice.NewSession(
		authoutadapter.NewAPIGateway(client),
		authoutadapter.NewCredentialStore(store),
		log,
	)
	authUC := authusecase.NewInteractor(session)

	tracker := usageservice.NewTracker(
		usageoutadapter.NewAPIGateway(client),
		usageoutadapter.NewFingerprintStore(store),
		fingerprint.Compute,
		log,
	)
	usageUC := usageusecase.NewInteractor(tracker)
	// Plan limits change the moment auth state does; drop the cached status
	// so the next gate check asks the server again.
	session.OnLogout(tracker.Invalidate)

	interviewUC := interviewusecase.NewInteractor(
		interviewoutadapter.NewAPIGateway(client),
		usageUC,
		clock.SystemClock{},
		log,
		nil,
	)

	historyUC := historyusecase.NewInteractor(historyoutadapter.NewAPIGateway(client))

	voiceUC := voiceusecase.NewInteractor(voiceservice.NewCapture(
		voiceoutadapter.NewAPIGateway(client),
		voiceoutadapter.NewExecRecorder(cfg.RecorderCmd),
		voiceoutadapter.NewExecPlayer(cfg.PlayerCmd),
		log,
	))

	billingUC := billingusecase.NewInteractor(
		billingoutadapter.NewAPIGateway(client),
		launcher.NewOSLauncher(),
		cfg.Currency,
	)

	exporterUC := exporterusecase.NewInteractor(exporterservice.NewExporterService(
		exporteroutadapter.NewFileManifestStore(cfg.DataDir),
		exporteroutadapter.NewGRPCHost(),
		historyUC,
	))

	return &App{
		InterviewCLI: interviewinadapter.NewCLIHandler(interviewUC),
		UsageCLI:     usageinadapter.NewCLIHandler(usageUC),
		AuthCLI:      authinadapter.NewCLIHandler(authUC),
		HistoryCLI:   historyinadapter.NewCLIHandler(historyUC),
		VoiceCLI:     voiceinadapter.NewCLIHandler(voiceUC),
		BillingCLI:   billinginadapter.NewCLIHandler(billingUC),
		ExporterCLI:  exporterinadapter.NewCLIHandler(exporterUC),
		Updates:      interviewUC.Updates(),
		closers:      closers,
	}, nil
}

// Close releases the data directory resources in reverse open order.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(
		app.InterviewCLI,
		app.VoiceCLI,
		app.HistoryCLI,
		app.AuthCLI,
		app.UsageCLI,
		app.BillingCLI,
		app.ExporterCLI,
		app.Updates,
	)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
