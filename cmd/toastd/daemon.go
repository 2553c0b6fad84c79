package main

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/anim"
	"github.com/jmylchreest/toastd/audio"
	"github.com/jmylchreest/toastd/config"
	"github.com/jmylchreest/toastd/dbus"
	"github.com/jmylchreest/toastd/event"
	"github.com/jmylchreest/toastd/gtkshell"
	"github.com/jmylchreest/toastd/overlay"
	"github.com/jmylchreest/toastd/surface"
	"github.com/jmylchreest/toastd/toast"
)

const appID = "io.github.jmylchreest.toastd"

// daemonState holds the live components shared between the GTK main loop
// and the D-Bus handlers.
type daemonState struct {
	cfg    *config.Config
	cfgMu  sync.RWMutex
	logger *slog.Logger

	center *toast.Center
	server *dbus.ControlServer
	player *audio.Player

	// live maps toast IDs to toasts so Cancel can find them.
	liveMu sync.Mutex
	live   map[string]*toast.Toast
}

func (d *daemonState) config() *config.Config {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.cfg
}

func (d *daemonState) setConfig(cfg *config.Config) {
	d.cfgMu.Lock()
	d.cfg = cfg
	d.cfgMu.Unlock()
}

func (d *daemonState) track(t *toast.Toast) {
	d.liveMu.Lock()
	d.live[t.ID()] = t
	d.liveMu.Unlock()
}

func (d *daemonState) untrack(id string) {
	d.liveMu.Lock()
	delete(d.live, id)
	d.liveMu.Unlock()
}

func (d *daemonState) lookup(id string) (*toast.Toast, bool) {
	d.liveMu.Lock()
	defer d.liveMu.Unlock()
	t, ok := d.live[id]
	return t, ok
}

// runDaemon starts the toast daemon on the GTK main loop.
func runDaemon(cmd *cobra.Command, args []string) error {
	logger.Info("starting toastd", "version", version)

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	d := &daemonState{
		cfg:    cfg,
		logger: logger,
		live:   make(map[string]*toast.Toast),
	}

	app := adw.NewApplication(appID, 0)

	var (
		ov            *overlay.Overlay
		configWatcher *config.Watcher
		running       atomic.Bool
	)

	// Signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		glib.IdleAdd(func() bool {
			if running.Load() {
				if configWatcher != nil {
					_ = configWatcher.Stop()
				}
				if d.server != nil {
					_ = d.server.Stop()
				}
				if d.center != nil {
					d.center.Stop()
				}
				if ov != nil {
					ov.Close()
				}
				app.Quit()
			}
			return false
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		bus := event.NewBus()
		exec := gtkshell.NewExecutor()

		shell, err := gtkshell.NewShell(bus, logger)
		if err != nil {
			logger.Error("failed to initialize shell", "error", err)
			app.Quit()
			return
		}

		backing := gtkshell.NewBacking()
		ov = overlay.New(backing, shell, bus, exec, logger)

		factory := func(t *toast.Toast) surface.Surface {
			return gtkshell.NewToastWindow(&app.Application, t, d.config().Display)
		}

		d.center = toast.NewCenter(exec, ov, factory, bus, logger)
		d.center.SetQueueing(d.config().Behavior.Queueing)
		d.center.SetAnnouncements(d.config().Behavior.Announcements)
		d.center.Start()

		d.player = audio.NewPlayer(logger)
		d.player.Apply(d.config().Audio)

		d.server = dbus.NewControlServer(logger)
		d.server.SetServerInfo(dbus.ServerInfo{
			Name:    "toastd",
			Vendor:  "jmylchreest",
			Version: version,
		})
		d.server.SetShowHandler(d.handleShow)
		d.server.SetCancelHandler(d.handleCancel)
		d.server.SetCancelAllHandler(func() { d.center.CancelAll() })
		d.server.SetStatusHandler(d.handleStatus)

		d.center.SetAnnouncer(dbus.NewAnnouncer(d.server))
		d.center.SetPresentCallback(d.presented)
		d.center.SetFinishCallback(d.finished)

		if err := d.server.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			d.center.Stop()
			app.Quit()
			return
		}

		configWatcher, err = config.NewWatcher(path, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			configWatcher.SetReloadCallback(func(newCfg *config.Config) {
				glib.IdleAdd(func() bool {
					d.setConfig(newCfg)
					d.center.SetQueueing(newCfg.Behavior.Queueing)
					d.center.SetAnnouncements(newCfg.Behavior.Announcements)
					d.player.Apply(newCfg.Audio)
					logger.Info("configuration reloaded")
					return false
				})
			})
			configWatcher.SetErrorCallback(func(err error) {
				logger.Warn("config reload rejected", "error", err)
			})
			if err := configWatcher.Start(); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
		}

		logger.Info("toastd ready", "dbus_interface", dbus.DBusInterface)

		// Hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAlive := gtk.NewWindow()
		keepAlive.SetApplication(&app.Application)
		keepAlive.SetDefaultSize(1, 1)
		keepAlive.SetDecorated(false)
		keepAlive.SetVisible(false)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			_ = configWatcher.Stop()
		}
		if d.server != nil {
			_ = d.server.Stop()
		}
		if d.center != nil {
			d.center.Stop()
		}
		if ov != nil {
			ov.Close()
		}
		running.Store(false)
	})

	status := app.Run([]string{os.Args[0]})
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("toastd stopped")
	return nil
}

// handleShow raises a toast from a D-Bus Show request.
func (d *daemonState) handleShow(req *dbus.ShowRequest) (string, error) {
	cfg := d.config()

	opts := []toast.Option{}
	if req.Icon != "" {
		opts = append(opts, toast.WithIcon(req.Icon))
	}

	hold := cfg.DefaultHold()
	if req.DurationMS > 0 {
		hold = time.Duration(req.DurationMS) * time.Millisecond
	}
	opts = append(opts,
		toast.WithDuration(hold),
		toast.WithDelay(cfg.Timing.Delay.Duration()),
		toast.WithTransitionDuration(cfg.Timing.Transition.Duration()),
	)

	enterStyle := req.Enter
	if enterStyle == "" {
		enterStyle = cfg.Anim.Enter
	}
	enter, err := anim.ParseEnter(enterStyle)
	if err != nil {
		return "", err
	}
	exitStyle := req.Exit
	if exitStyle == "" {
		exitStyle = cfg.Anim.Exit
	}
	exit, err := anim.ParseExit(exitStyle)
	if err != nil {
		return "", err
	}
	opts = append(opts, toast.WithEnter(enter), toast.WithExit(exit))

	t := toast.New(d.center, req.Text, opts...)
	d.track(t)
	t.Show()
	return t.ID(), nil
}

// handleCancel cancels a live toast by ID.
func (d *daemonState) handleCancel(id string) bool {
	t, ok := d.lookup(id)
	if !ok {
		return false
	}
	t.Cancel()
	return true
}

// handleStatus reports the visible toast and queue depth.
func (d *daemonState) handleStatus() (string, string, uint32) {
	var id, text string
	if t := d.center.Current(); t != nil {
		id = t.ID()
		text = t.Text()
	}
	return id, text, uint32(d.center.Pending())
}

// presented runs when a toast becomes visible: emit the signal and play the
// cue if one is configured.
func (d *daemonState) presented(t *toast.Toast) {
	if err := d.server.EmitPresented(t.ID(), t.Text()); err != nil {
		d.logger.Warn("failed to emit Presented signal", "id", t.ID(), "error", err)
	}

	if d.player.Enabled() {
		// Decoding can block; keep it off the GTK main loop.
		go func() {
			if err := d.player.Cue(); err != nil {
				d.logger.Debug("failed to play cue", "error", err)
			}
		}()
	}
}

// finished runs when a toast's lifecycle completes.
func (d *daemonState) finished(t *toast.Toast) {
	d.untrack(t.ID())
	if err := d.server.EmitFinished(t.ID(), t.Cancelled()); err != nil {
		d.logger.Warn("failed to emit Finished signal", "id", t.ID(), "error", err)
	}
}
