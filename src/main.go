package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/jinjor/signal-scope/src/scope"
)

func main() {
	configFile := pflag.StringP("config-file", "c", "", "YAML session configuration. Defaults apply when omitted.")
	exportDir := pflag.StringP("export-dir", "e", "export", "Directory for WAV snapshots taken with the s key.")
	monitorCh := pflag.IntP("monitor", "m", 0, "Channel to play through the soundcard. 0 to disable.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg := scope.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = scope.LoadConfig(*configFile)
		if err != nil {
			logger.Fatal("failed to load config", "err", err)
		}
	}

	session, err := scope.NewSession(cfg, logger)
	if err != nil {
		logger.Fatal("invalid session configuration", "err", err)
	}
	defer session.Close()

	var monitor *scope.Monitor
	if *monitorCh > 0 {
		monitor, err = scope.NewMonitor(int(cfg.SampleRate), *monitorCh)
		if err != nil {
			logger.Fatal("failed to open audio monitor", "err", err)
		}
		defer monitor.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		logger.Info("caught signal, shutting down", "signal", sig)
		cancel()
	}()

	snapshotCh := make(chan struct{}, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Start(ctx)
	})
	g.Go(func() error {
		return consumeFrames(ctx, session, monitor, *exportDir, snapshotCh, logger)
	})
	g.Go(func() error {
		defer cancel()
		return readKeys(ctx, session, snapshotCh, logger)
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("error", "err", err)
	}
}

func consumeFrames(ctx context.Context, session *scope.Session, monitor *scope.Monitor, exportDir string, snapshotCh <-chan struct{}, logger *log.Logger) error {
	frameCount := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame := <-session.Frames():
			frameCount++
			if monitor != nil {
				if err := monitor.PlayFrame(frame); err != nil {
					logger.Warn("audio monitor write failed", "err", err)
				}
			}
			select {
			case <-snapshotCh:
				if err := scope.ExportFrame(exportDir, frame); err != nil {
					logger.Error("snapshot failed", "err", err)
				} else {
					logger.Info("snapshot written", "dir", exportDir)
				}
			default:
			}
			if frameCount%100 == 0 {
				logger.Debug("streaming", "frames", frameCount, "start", frame.Axis.Start)
			}
		}
	}
}

func readKeys(ctx context.Context, session *scope.Session, snapshotCh chan<- struct{}, logger *log.Logger) error {
	if err := keyboard.Open(); err != nil {
		return err
	}
	var closeKeyboard sync.Once
	closeOnce := func() {
		closeKeyboard.Do(func() { keyboard.Close() })
	}
	defer closeOnce()
	go func() {
		// unblock GetKey when the rest of the group shuts down
		<-ctx.Done()
		closeOnce()
	}()
	logger.Info("keys: r run, f freeze, x reset, s snapshot, q quit")
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if key == keyboard.KeyCtrlC || char == 'q' {
			return nil
		}
		switch char {
		case 'r':
			session.CommandCh <- []string{"run"}
		case 'f':
			session.CommandCh <- []string{"freeze"}
		case 'x':
			session.CommandCh <- []string{"reset"}
		case 's':
			select {
			case snapshotCh <- struct{}{}:
			default:
			}
		}
	}
}
