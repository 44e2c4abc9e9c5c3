package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vskvj3/geomys-list/internal/core"
	"github.com/vskvj3/geomys-list/internal/network"
	"github.com/vskvj3/geomys-list/internal/persistence"
	"github.com/vskvj3/geomys-list/internal/utils"
)

func main() {
	if err := createServerCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "geomys.yaml"
	}
	return filepath.Join(homeDir, ".geomys", "geomys.yaml")
}

func createServerCommand() *cobra.Command {
	var (
		configPath string
		port       int
		debug      bool
	)
	command := &cobra.Command{
		Use:          "geomys-server",
		Short:        "Starts the geomys server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := utils.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			if cmd.Flags().Changed("port") {
				config.InternalPort = port
			}
			if cmd.Flags().Changed("debug") {
				config.Debug = debug
			}

			logger := utils.NewLogger(config.LogFile, config.Debug)
			logger.Info("Loaded configurations from " + configPath)
			return run(cmd.Context(), config)
		},
	}
	command.Flags().StringVar(&configPath, "config", defaultConfigPath(), "Path to the YAML configuration file")
	command.Flags().IntVar(&port, "port", 6379, "Port of server")
	command.Flags().BoolVar(&debug, "debug", false, "Also print debug logging to stdout")
	return command
}

func run(ctx context.Context, config *utils.Config) error {
	logger := utils.GetLogger()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var requestLog core.RequestLog
	if config.Persistence == utils.PersistenceWriteThrough {
		path := config.PersistencePath
		if path == "" {
			var err error
			if path, err = persistence.DefaultPath(); err != nil {
				return err
			}
		}
		disk, err := persistence.NewPersistence(path)
		if err != nil {
			return err
		}
		defer disk.Close()
		requestLog = disk
	}

	db := core.NewBoundedDatabase(config.MaxKeys)
	handler := core.NewCommandHandler(db, requestLog)
	handler.DefaultTTL = int64(config.DefaultExpiry)
	if replayed, err := handler.Replay(); err != nil {
		logger.Warn("Could not read from persistence: " + err.Error())
	} else {
		logger.Info("Replayed " + strconv.Itoa(replayed) + " requests from persistence")
	}
	db.StartCleanup(ctx, time.Duration(config.CleanupInterval)*time.Millisecond)

	server, err := network.NewServer(strconv.Itoa(config.InternalPort), handler)
	if err != nil {
		return fmt.Errorf("server creation failed: %w", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		server.Close()
	}()
	// net.ErrClosed means shutdown began before the listener was bound
	if err := server.Start(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
