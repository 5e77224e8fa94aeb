package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/collection"
	"github.com/desertthunder/shelf/internal/repositories"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	items      *repositories.ItemRepository
	jobs       *repositories.ImportJobRepository
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *collection.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // Opened from Config.Database on first use when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     collection.NewEngine(),
	}
	if opts.DB != nil {
		r.attach(opts.DB)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, addCommand, updateCommand, removeCommand, listCommand, statsCommand,
		importCommand, importsCommand, exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. to keep log lines out of the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// open connects to the configured database on first use and runs pending migrations.
func (r *Runner) open() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return err
	}
	r.attach(db)
	return nil
}

func (r *Runner) attach(db *sql.DB) {
	r.db = db
	r.items = repositories.NewItemRepository(db)
	r.jobs = repositories.NewImportJobRepository(db)
}

// Close releases the database connection, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.items, r.jobs = nil, nil, nil
	return err
}

func (r *Runner) pageSize() int {
	if r.config.View.PageSize > 0 {
		return r.config.View.PageSize
	}
	return collection.DefaultPageSize
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
