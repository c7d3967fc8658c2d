package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	c "lautenbacher.net/goornament/config"
	"lautenbacher.net/goornament/logging"
	pl "lautenbacher.net/goornament/platform"
	"lautenbacher.net/goornament/player"
	"lautenbacher.net/goornament/touch"
)

var (
	configFile = c.CONFILE
	realHW     = false
	sensorShow = false
)

func init() {
	pflag.StringVarP(&configFile, "config", "c", configFile, "configuration file")
	pflag.BoolVar(&realHW, "real", realHW, "run on the real hardware instead of the TUI simulation")
	pflag.BoolVar(&sensorShow, "sensor-show", sensorShow, "only show touch sensor statistics")
}

// newPlatform is replaced in tests.
var newPlatform = func(conf *c.Config, ossignal chan os.Signal) pl.Platform {
	if conf.RealHW {
		return pl.NewRaspberryPiPlatform(conf)
	}
	return pl.NewTUIPlatform(conf, ossignal)
}

func main() {
	pflag.Parse()

	ossignal := make(chan os.Signal, 1)
	signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		restart, err := run(ossignal)
		if err != nil {
			slog.Error("Exiting", "error", err)
			logging.Close()
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !restart {
			break
		}
		slog.Info("Restarting with reloaded config", "file", configFile)
	}
	logging.Close()
}

// run reads the config, starts the platform and polls until a signal
// arrives. It reports whether the signal asked for a restart.
func run(ossignal chan os.Signal) (bool, error) {
	conf, err := c.ReadConfig(configFile, realHW, sensorShow)
	if err != nil {
		return false, err
	}
	if err := logging.Init(conf.ActiveLogging(), !conf.RealHW); err != nil {
		return false, fmt.Errorf("can't initialize logging: %w", err)
	}

	platform := newPlatform(conf, ossignal)
	if err := platform.Start(); err != nil {
		return false, fmt.Errorf("can't start platform: %w", err)
	}
	defer platform.Stop()
	<-platform.Ready()

	baseline := touch.Calibrate(platform, conf.Hardware.Touch)
	slog.Info("Calibrated touch sensor", "baseline", baseline, "threshold", conf.Hardware.Touch.Threshold)
	detector := touch.NewDetector(platform, baseline, conf.Hardware.Touch, conf.Sequences.DebugInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errg, ctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		return loop(ctx, conf, platform, detector, ossignal)
	})
	errg.Go(func() error {
		return watchConfig(ctx, conf.Configfile, ossignal)
	})

	restart := false
	errg.Go(func() error {
		select {
		case sig := <-ossignal:
			slog.Info("Received signal", "signal", sig)
			restart = sig == syscall.SIGHUP
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	if err := errg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return false, err
	}
	return restart, nil
}

func loop(ctx context.Context, conf *c.Config, platform pl.Platform, detector *touch.Detector, ossignal chan os.Signal) error {
	if conf.SensorShow {
		viewer := pl.NewSensorViewer(detector, ossignal)
		if toucher, ok := platform.(interface{ Touch() }); ok {
			viewer.SetTouchFunc(toucher.Touch)
		}
		return viewer.Run(ctx, conf.Hardware.LoopDelay)
	}
	p := player.NewPlayer(detector, platform, platform.LedsTotal(), conf.Sequences)
	return p.Run(ctx, conf.Hardware.LoopDelay)
}

// watchConfig sends SIGHUP once the config file changes. The directory
// is watched because editors often replace the file instead of writing it.
func watchConfig(ctx context.Context, file string, ossignal chan os.Signal) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("Config file watcher not available", "error", err)
		return nil
	}
	defer watcher.Close()

	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("can't resolve config file %s: %w", file, err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		slog.Warn("Can't watch config file", "file", path, "error", err)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Info("Config file changed", "file", path, "op", event.Op.String())
			select {
			case ossignal <- syscall.SIGHUP:
			case <-ctx.Done():
			}
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config file watcher error", "error", err)
		}
	}
}
