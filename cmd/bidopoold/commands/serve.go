package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bidolabs/bidopool-go/config"
	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/rpc"
	"github.com/bidolabs/bidopool-go/staking"
	"github.com/bidolabs/bidopool-go/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pool daemon",
	Long: `Start the HTTP API for the staking pool.

State is restored from the bbolt database under the data directory if one
exists; otherwise a fresh, uninitialized pool is created with the configured
owner. A snapshot is persisted after every successful operation.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	owner, err := identity.FromHex(cfg.Owner)
	if err != nil {
		return err
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "pool.db"))
	if err != nil {
		return err
	}
	defer st.Close()

	outbox := staking.NewOutbox()
	controller := staking.New(owner, outbox)

	snap, found, err := st.LoadSnapshot()
	if err != nil {
		return err
	}
	if found {
		if err := controller.Restore(snap); err != nil {
			return fmt.Errorf("restore snapshot: %w", err)
		}
		logger.Info("pool state restored",
			slog.Uint64("total_shares", snap.TotalShares),
			slog.Uint64("total_pooled", snap.TotalPooled),
			slog.Bool("initialized", snap.Initialized),
		)
	} else {
		logger.Info("starting fresh pool", slog.String("owner", owner.String()))
	}

	opts := []rpc.Option{rpc.WithStore(st), rpc.WithOutbox(outbox)}
	if cfg.AdminTokenHash != "" {
		auth, err := rpc.NewTokenAuth(cfg.AdminTokenHash, cfg.AdminTokenSalt)
		if err != nil {
			return err
		}
		opts = append(opts, rpc.WithAuth(auth))
	} else {
		logger.Warn("no admin token configured; owner endpoints disabled")
	}

	srv := rpc.NewServer(controller, logger, opts...)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.ListenAddr))
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// newLogger builds a text slog logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
