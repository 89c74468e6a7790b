package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"

	"focusloop/internal/core/model"
	"focusloop/internal/platform"
	"focusloop/internal/playback/webhost"
	"focusloop/internal/session"
	"focusloop/internal/storage"
	"focusloop/internal/ui/host"
	"focusloop/internal/ui/overlay"
	"focusloop/internal/ui/tray"
	"focusloop/resources"
)

const overlayOpacity = uint8(235)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var startNow bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tray app and the player host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd.Context(), ctx, startNow)
		},
	}

	cmd.Flags().BoolVar(&startNow, "start", false, "Start the first focus block immediately")
	return cmd
}

func runTray(parent context.Context, ctx *commandContext, startNow bool) error {
	if parent == nil {
		parent = context.Background()
	}
	logger, err := ctx.logger(os.Stderr)
	if err != nil {
		return err
	}
	settings, err := ctx.ensureSettings()
	if err != nil {
		return err
	}
	configPath, err := ctx.configPath()
	if err != nil {
		return err
	}

	guard, err := platform.AcquireSingleInstance(filepath.Dir(configPath), appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			return fmt.Errorf("%s is already running", appName)
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	runCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fyneApp := app.NewWithID("dev.focusloop.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconLogo))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("focusloop is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	player := webhost.NewServer(logger)
	go func() {
		if err := player.Run(runCtx, settings.PlayerAddr); err != nil {
			logger.Error("player host stopped", "error", err)
		}
	}()

	completion := overlay.New(fyneApp, overlay.Config{
		Opacity: overlayOpacity,
		Icon:    resources.MustIcon(resources.IconLogo),
	})

	var controller *session.Controller
	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnToggleSession: func() {
			if controller.Status().Phase == model.PhaseIdle {
				controller.Start()
				return
			}
			controller.Stop()
		},
		OnReset:          func() { controller.Reset() },
		OnSkip:           func() { controller.Skip() },
		OnTogglePlayback: func() { controller.TogglePlayback() },
		OnOpenPlayer: func() {
			target, err := url.Parse("http://" + settings.PlayerAddr)
			if err != nil {
				logger.Warn("player address", "addr", settings.PlayerAddr, "error", err)
				return
			}
			if err := fyneApp.OpenURL(target); err != nil {
				logger.Warn("open player", "error", err)
			}
		},
		OnQuit: stop,
	})

	desktopHost := host.New(host.Options{
		Notifier:   fyneApp,
		Icons:      desktopApp,
		Tray:       trayManager,
		Completion: completion,
		Resources: host.Icons{
			Idle:  resources.MustIcon(resources.IconIdle),
			Focus: resources.MustIcon(resources.IconFocus),
			Break: resources.MustIcon(resources.IconBreak),
		},
		Logger: logger,
	})

	controller = session.New(settings, session.Options{
		Host:         desktopHost,
		Player:       player,
		TickInterval: time.Second,
		IdleChecker:  platform.NewIdleProvider(),
		Logger:       logger,
	})
	completion.SetOnStartAgain(controller.Start)

	go desktopHost.Follow(controller.Subscribe(16), controller.Status)

	updates, err := storage.Watch(runCtx, configPath, logger)
	if err != nil {
		logger.Warn("settings watch disabled", "error", err)
	} else {
		go func() {
			for updated := range updates {
				controller.ApplySettings(updated)
			}
		}()
	}

	go func() {
		<-runCtx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconIdle))
	logger.Info("tray ready", "player", "http://"+settings.PlayerAddr, "config", configPath)
	if startNow {
		controller.Start()
	}

	fyneApp.Run()
	controller.Close()
	return nil
}
