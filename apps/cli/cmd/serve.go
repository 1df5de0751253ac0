package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/db"
	"github.com/abdul-hamid-achik/crudspec/packages/usersapi"
	"github.com/spf13/cobra"
)

// ShutdownTimeout bounds the graceful shutdown of the reference API
const ShutdownTimeout = 5 * time.Second

var (
	servePortFlag    int
	serveHostFlag    string
	serveDBFlag      string
	serveVerboseFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reference users API",
	Long: `Start the users API the built-in catalog is written against, backed by
SQLite. Point a run at it to see the expected mix of responses and errors.

Examples:
  crudspec serve
  crudspec serve --port 8080 --db users.db
  crudspec serve & crudspec run --api-url http://localhost:3000`,
	Args: cobra.NoArgs,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", getEnvInt("CRUDSPEC_PORT", 3000), "Port to listen on (env: CRUDSPEC_PORT)")
	serveCmd.Flags().StringVar(&serveHostFlag, "host", getEnvString("CRUDSPEC_HOST", "localhost"), "Host to bind (env: CRUDSPEC_HOST)")
	serveCmd.Flags().StringVar(&serveDBFlag, "db", getEnvString("CRUDSPEC_DB", db.MemoryDSN), "SQLite database, e.g. sqlite://users.db (env: CRUDSPEC_DB)")
	serveCmd.Flags().BoolVarP(&serveVerboseFlag, "verbose", "v", getEnvBool("CRUDSPEC_VERBOSE", false), "Log at debug level (env: CRUDSPEC_VERBOSE)")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// request logs are Info, so they stay visible without --verbose
	level := slog.LevelInfo
	if serveVerboseFlag {
		level = slog.LevelDebug
	}
	logger := leveledLogger(cmd.ErrOrStderr(), level)

	client, err := db.NewClient(serveDBFlag)
	if err != nil {
		return exitErr(ExitServeError, err)
	}
	defer client.Close()

	addr := net.JoinHostPort(serveHostFlag, strconv.Itoa(servePortFlag))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return exitErr(ExitServeError, fmt.Errorf("listen on %s: %w", addr, err))
	}

	server := &http.Server{
		Handler:           usersapi.NewRouter(client, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Users API listening on http://%s (press Ctrl+C to stop)\n", ln.Addr())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return exitErr(ExitServeError, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return exitErr(ExitServeError, fmt.Errorf("shutdown: %w", err))
	}
	return nil
}
