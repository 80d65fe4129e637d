package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handreceipt/hr-cli/internal/adapters/ws"
	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/config"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

var (
	daemonInterval time.Duration
	daemonQuiet    bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background sync agent",
	Long: `Run the background sync agent.

The daemon keeps the vault in step with the server. It replays the offline
queue on a fixed interval, replays again as soon as another hr process
appends to the queue, and listens on the server's websocket so cached
collections are refreshed the moment something changes on the other side.

Examples:
  hr daemon
  hr daemon --interval 1m
  hr daemon --quiet`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 0, "replay interval (default from config)")
	daemonCmd.Flags().BoolVarP(&daemonQuiet, "quiet", "q", false, "suppress console output")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := appConfig.SyncInterval()
	if daemonInterval > 0 {
		interval = daemonInterval
	}

	logger := appLogger.Named("daemon")
	say := func(line string) {
		if !daemonQuiet {
			fmt.Println(line)
		}
	}

	say(ui.FormatInfo("hr daemon starting"))
	say(ui.FormatMuted("  server:   " + config.ResolveServerURL(serverFlag, appConfig)))
	say(ui.FormatMuted("  queue:    " + appVault.QueuePath()))
	say(ui.FormatMuted(fmt.Sprintf("  interval: %s", interval)))
	say(ui.FormatMuted("Press Ctrl+C to stop."))
	say("")
	logger.Info("daemon started", zap.Duration("interval", interval))

	online := false
	onlineKnown := false

	replay := func() {
		resp, err := syncService.Replay(ctx)
		if err != nil {
			logger.Warn("replay failed", zap.Error(err))
			say(ui.FormatError("Replay failed: " + err.Error()))
			return
		}
		if resp.Offline {
			if online || !onlineKnown {
				say(ui.FormatOffline(fmt.Sprintf("Server unreachable; %d operations queued", resp.Remaining)))
			}
			online, onlineKnown = false, true
			return
		}
		online, onlineKnown = true, true
		if resp.Replayed == 0 && resp.Failed == 0 {
			return
		}
		logger.Info("queue replayed", zap.Int("replayed", resp.Replayed), zap.Int("failed", resp.Failed))
		if resp.Replayed > 0 {
			say(ui.FormatSuccess(fmt.Sprintf("Replayed %d queued operations", resp.Replayed)))
		}
		for _, f := range resp.Failures {
			say(ui.FormatMuted("  " + f.Summary + ": " + f.Error))
		}
	}

	tick := func() {
		err := apiClient.Ping(ctx)
		nowOnline := err == nil
		if nowOnline != online || !onlineKnown {
			if nowOnline {
				logger.Info("server reachable")
				say(ui.FormatSuccess("Server reachable"))
			} else {
				logger.Warn("server unreachable", zap.Error(err))
				say(ui.FormatOffline("Server unreachable; queued operations will wait"))
			}
			online, onlineKnown = nowOnline, true
		}
		if !nowOnline {
			return
		}
		if pending, err := syncService.Pending(ctx); err == nil && pending > 0 {
			replay()
		}
	}

	socket := connectSocket(ctx, logger, say)
	if socket != nil {
		defer socket.Close()
	}

	if appConfig.SyncOnStart {
		tick()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create queue watcher: " + err.Error()))
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(appVault.RootPath); err != nil {
		fmt.Println(ui.FormatError("Failed to watch vault: " + err.Error()))
		return err
	}

	queueFile := filepath.Base(appVault.QueuePath())
	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond

	// Debounce timer so a burst of queue writes triggers one replay
	var debounceTimer *time.Timer

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != queueFile {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("queue changed", zap.String("op", event.Op.String()))
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, replay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-ticker.C:
			tick()

		case <-ctx.Done():
			say("")
			say(ui.FormatInfo("hr daemon stopping"))
			logger.Info("daemon stopped")
			return nil
		}
	}
}

// connectSocket opens the live event stream when a session exists. A
// missing or unusable session disables live events but never stops the
// daemon; the replay ticker still runs.
func connectSocket(ctx context.Context, logger *zap.Logger, say func(string)) *ws.Socket {
	session, err := tokenStore.Load()
	if err != nil {
		say(ui.FormatWarning("No session; live events disabled. Run 'hr login' and restart the daemon."))
		return nil
	}

	socket, err := ws.New(config.ResolveServerURL(serverFlag, appConfig), session.AccessToken, ws.Options{
		ReconnectDelay: appConfig.SocketReconnectDelay(),
		MaxReconnects:  appConfig.SocketMaxReconnects,
	}, logger)
	if err != nil {
		say(ui.FormatWarning("Live events disabled: " + err.Error()))
		return nil
	}

	refresh := func(name string, fetch func() error) {
		if err := fetch(); err != nil {
			logger.Debug("refresh failed", zap.String("collection", name), zap.Error(err))
		}
	}

	socket.On(ws.EventPropertyUpdate, func(ev ws.Event) {
		var data ws.PropertyEventData
		if err := ev.Decode(&data); err != nil {
			return
		}
		say(ui.FormatInfo(fmt.Sprintf("Property %s: %s", data.SerialNumber, data.Action)))
		refresh("properties", func() error {
			_, err := propertyService.List(ctx, services.ListPropertiesRequest{Refresh: true})
			return err
		})
	})

	onTransfer := func(ev ws.Event) {
		var data ws.TransferEventData
		if err := ev.Decode(&data); err != nil {
			return
		}
		say(ui.FormatInfo(fmt.Sprintf("Transfer #%d (%s): %s", data.TransferID, data.ItemName, data.Status)))
		refresh("transfers", func() error {
			_, err := transferService.List(ctx, services.ListTransfersRequest{Refresh: true})
			return err
		})
	}
	socket.On(ws.EventTransferUpdate, onTransfer)
	socket.On(ws.EventTransferCreated, onTransfer)

	onConnection := func(ev ws.Event) {
		var data ws.ConnectionEventData
		if err := ev.Decode(&data); err != nil {
			return
		}
		who := data.FromUserName
		if who == "" {
			who = fmt.Sprintf("user %d", data.FromUserID)
		}
		say(ui.FormatInfo(fmt.Sprintf("Connection from %s: %s", who, data.Status)))
		refresh("connections", func() error {
			_, err := connectionService.List(ctx, services.ListConnectionsRequest{Refresh: true})
			return err
		})
	}
	socket.On(ws.EventConnectionRequest, onConnection)
	socket.On(ws.EventConnectionAccepted, onConnection)

	socket.On(ws.EventDocumentReceived, func(ev ws.Event) {
		var data ws.DocumentEventData
		if err := ev.Decode(&data); err != nil {
			return
		}
		say(ui.FormatInfo(fmt.Sprintf("Document received: %s", data.Title)))
		refresh("documents", func() error {
			_, err := documentService.List(ctx, services.ListDocumentsRequest{Box: "inbox", Refresh: true})
			return err
		})
	})

	socket.On(ws.EventNotification, func(ev ws.Event) {
		logger.Info("notification", zap.String("type", ev.Type))
	})

	go func() {
		if err := socket.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("socket stopped", zap.Error(err))
			say(ui.FormatWarning("Live events stopped: " + err.Error()))
		}
	}()

	say(ui.FormatMuted("Listening for live events"))
	return socket
}
