// qrconnect is a terminal client for the QR service: it registers and logs
// in accounts, keeps the bearer token encrypted on disk between runs, and
// shows the account's QR code by writing it to a PNG file.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/qrconnect/appkit/modules/auth"
	"github.com/qrconnect/appkit/modules/qrview"
	"github.com/qrconnect/appkit/pkg/apiclient"
	"github.com/qrconnect/appkit/pkg/config"
	"github.com/qrconnect/appkit/pkg/guard"
	"github.com/qrconnect/appkit/pkg/i18n"
	"github.com/qrconnect/appkit/pkg/logger"
	"github.com/qrconnect/appkit/pkg/qrcode"
	"github.com/qrconnect/appkit/pkg/securestore"
	"github.com/qrconnect/appkit/pkg/session"
)

//go:embed locales.yaml
var localeCatalog []byte

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "qrconnect:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(slog.String("app", "qrconnect")),
	)
	logger.SetAsDefault(log)

	dir, err := cfg.dataDir()
	if err != nil {
		return err
	}
	key, err := cfg.storeKey(dir)
	if err != nil {
		return err
	}
	store, err := securestore.NewFileStore(dir, key)
	if err != nil {
		return fmt.Errorf("opening secure store: %w", err)
	}

	translator, err := i18n.NewTranslator(localeCatalog, i18n.WithDefaultLanguage("en"))
	if err != nil {
		return fmt.Errorf("loading locale catalog: %w", err)
	}

	sessions := session.New(store, session.WithLogger(log))
	defer sessions.Close()

	api := apiclient.New(cfg.APIBaseURL, apiclient.WithLogger(log))
	authClient := apiclient.NewAuthClient(api)
	qrClient := apiclient.NewQRClient(api)

	ui := newTerminal(os.Stdin, os.Stdout)
	access := guard.New(sessions, ui, guard.WithLogger(log))

	flow := auth.NewFlow(authClient, sessions, ui, translator,
		auth.WithLanguage(cfg.Language),
		auth.WithLogger(log),
	)
	screen := qrview.New(qrClient, sessions, access, translator,
		qrview.WithLanguage(cfg.Language),
		qrview.WithLogger(log),
	)
	defer screen.Close()

	state := sessions.Bootstrap(ctx)
	if state.Authenticated {
		ui.Replace(routeQR)
		log.Info("session restored", slog.String("subject", state.Claims.Subject))
	}

	app := &application{
		cfg:    cfg,
		ui:     ui,
		flow:   flow,
		screen: screen,
		log:    log,
	}
	return app.loop(ctx)
}

type application struct {
	cfg    appConfig
	ui     *terminal
	flow   *auth.Flow
	screen *qrview.Controller
	log    *slog.Logger
}

func (a *application) loop(ctx context.Context) error {
	for ctx.Err() == nil {
		var done bool
		switch a.ui.Route() {
		case routeQR:
			done = a.qrScreen(ctx)
		default:
			done = a.authScreen(ctx)
		}
		if done {
			return nil
		}
	}
	return nil
}

// authScreen runs one command of the public screens. Returns true on quit.
func (a *application) authScreen(ctx context.Context) bool {
	a.ui.printf("\n[%s] commands: login, register, forgot, quit\n", a.ui.Route())
	cmd, ok := a.ui.prompt("command")
	if !ok {
		return true
	}

	var res auth.Result
	switch cmd {
	case "login":
		email, password, ok := a.credentials()
		if !ok {
			return true
		}
		res = a.flow.Login(ctx, auth.LoginRequest{Email: email, Password: password})
	case "register":
		email, password, ok := a.credentials()
		if !ok {
			return true
		}
		res = a.flow.Register(ctx, auth.RegisterRequest{Email: email, Password: password})
	case "forgot":
		email, ok := a.ui.prompt("email")
		if !ok {
			return true
		}
		res = a.flow.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: email})
	case "quit":
		return true
	case "":
	default:
		a.ui.printf("unknown command %q\n", cmd)
	}

	if res.Notice != "" {
		a.ui.printf("%s\n", res.Notice)
	}
	return false
}

func (a *application) credentials() (email, password string, ok bool) {
	if email, ok = a.ui.prompt("email"); !ok {
		return "", "", false
	}
	if password, ok = a.ui.prompt("password"); !ok {
		return "", "", false
	}
	return email, password, true
}

// qrScreen mounts the QR controller and runs commands until the route
// changes or the user quits. Returns true on quit.
func (a *application) qrScreen(ctx context.Context) bool {
	if a.screen.Start(ctx) != guard.OutcomeAllow {
		return false
	}
	defer a.screen.Stop()

	for a.ui.Route() == routeQR {
		a.render()
		cmd, ok := a.ui.prompt("command")
		if !ok {
			return true
		}
		switch cmd {
		case "refresh":
			a.screen.Refresh(ctx)
		case "logout":
			a.screen.Logout(ctx)
		case "quit":
			return true
		case "":
		default:
			a.ui.printf("unknown command %q\n", cmd)
		}
	}
	return false
}

func (a *application) render() {
	state := a.screen.State()
	a.ui.printf("\n[%s] commands: refresh, logout, quit\n", routeQR)

	if state.Notice != "" {
		a.ui.printf("%s\n", state.Notice)
	}
	if state.Artifact == nil {
		return
	}

	png, err := qrcode.ArtifactPNG(state.Artifact.Code, 0)
	if err != nil {
		a.log.Error("rendering QR artifact", slog.Any("error", err))
		a.ui.printf("QR code could not be rendered\n")
		return
	}
	if err := os.WriteFile(a.cfg.QRFile, png, 0o644); err != nil {
		a.log.Error("writing QR file", slog.Any("error", err))
		return
	}
	a.ui.printf("QR code written to %s (updated %s)\n", a.cfg.QRFile, state.Artifact.LastUpdated)
}
