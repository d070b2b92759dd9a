// Command corpusimport creates the corpus schema in a MySQL database and
// bulk-imports tab-delimited corpus files into it.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/corpusimport/internal/config"
	"github.com/JonMunkholm/corpusimport/internal/core"
	_ "github.com/JonMunkholm/corpusimport/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/corpusimport/internal/database"
	"github.com/JonMunkholm/corpusimport/internal/logging"
)

// openDB is replaced in tests.
var openDB = database.Open

// app holds the state shared by all subcommands for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	host     string
	user     string
	password string
	port     int
	dbName   string

	cfg    *config.Config
	params database.Params
}

func main() {
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		// A second signal gets the default behavior and kills the process.
		signal.Stop(sigCh)
		cancel(fmt.Errorf("received %s", sig))
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		red := color.New(color.FgRed)
		red.Fprint(stderr, "Error: ")
		fmt.Fprintln(stderr, err)
		if d := core.Diagnose(err); d.Code != "ERR000" {
			color.New(color.FgYellow).Fprintln(stderr, d.String())
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corpusimport",
		Short: "Load a linguistic corpus into a MySQL database",
		Long: `corpusimport creates the corpus tables and imports tab-delimited
corpus files into them.

Connection settings come from flags, environment variables
(CORPUS_DB_HOST, CORPUS_DB_USER, CORPUS_DB_PASSWORD, CORPUS_DB_PORT,
CORPUS_DB_NAME, DATABASE_URL), a .env file and an optional TOML file given
with --config. Flags win over everything else.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.host, "host", "localhost", "database host")
	f.StringVarP(&a.user, "user", "u", "root", "database user")
	f.StringVarP(&a.password, "password", "p", "", "database password")
	f.IntVar(&a.port, "port", database.DefaultPort, "database port")
	f.StringVarP(&a.dbName, "database", "d", "elia", "database name")
	f.StringVar(&a.configPath, "config", "", "path to a TOML config file")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(a.createCmd(), a.importCmd())
	return root
}

// setup loads configuration, applies explicitly set flags over it and
// configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// A missing .env file is fine; real environment variables win over it.
	_ = godotenv.Load()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	logging.SetupWriter(a.stderr, cfg.Logging.Level, cfg.Logging.Format)

	params, err := database.FromConfig(cfg.Database)
	if err != nil {
		return err
	}
	if f.Changed("host") {
		params.Host = a.host
	}
	if f.Changed("user") {
		params.User = a.user
	}
	if f.Changed("password") {
		params.Password = a.password
	}
	if f.Changed("port") {
		params.Port = a.port
	}
	if f.Changed("database") {
		params.Name = a.dbName
	}

	a.cfg = cfg
	a.params = params
	slog.Debug("configuration loaded", "config", cfg.String(), "database", params.Redacted())
	return nil
}

// connect opens the configured database.
func (a *app) connect(ctx context.Context) (*sql.DB, error) {
	slog.Info("connecting", "database", a.params.Redacted())
	return openDB(ctx, a.params)
}
