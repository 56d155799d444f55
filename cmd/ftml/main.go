package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/etree"
	"github.com/fwojciec/ftml/extract"
	"github.com/fwojciec/ftml/goquery"
	"github.com/fwojciec/ftml/html"
	"github.com/fwojciec/ftml/htmltomarkdown"
	"github.com/fwojciec/ftml/lru"
	"github.com/fwojciec/ftml/readability"
	ftmlslog "github.com/fwojciec/ftml/slog"
	"github.com/fwojciec/ftml/sqlite"
	"github.com/fwojciec/ftml/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is fine.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the --db flag when set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// ConfigPaths lists the YAML configuration files consulted for flag
	// defaults, in order.
	ConfigPaths []string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{"ftml.yaml", "~/.config/ftml/config.yaml"},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ftml"),
		kong.Description("Extract FTML annotations from HTML documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLLoader, m.ConfigPaths...),
		kong.Bind(deps, cli),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ftml --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := NewLogger(stderr, cli.LogFormat, cli.LogLevel)
	if err != nil {
		return err
	}
	deps.Logger = logger

	dbPath := m.DBPath
	if dbPath == "" {
		dbPath = cli.DB
	}
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set FTML_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	if err := m.wire(deps, cli); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire connects the services every command shares.
func (m *Main) wire(deps *Dependencies, cli *CLI) error {
	logger := deps.Logger

	deps.Roots = make(map[string]ftml.ArchiveURI, len(cli.Roots))
	for dir, id := range cli.Roots {
		deps.Roots[dir] = cli.Archive(id)
	}
	cache, err := lru.NewBackend(sqlite.NewBackend(m.DB, deps.Roots), cli.CacheSize)
	if err != nil {
		return err
	}
	deps.Documents = ftmlslog.NewLoggingDocumentService(sqlite.NewDocumentService(m.DB), logger)
	deps.Modules = ftmlslog.NewLoggingModuleService(&lru.ModuleService{
		ModuleService: sqlite.NewModuleService(m.DB),
		Cache:         cache,
	}, logger)
	deps.Triples = sqlite.NewTripleService(m.DB)
	deps.Backend = ftmlslog.NewLoggingBackend(cache, logger)

	opts := extract.Options{
		Prefix:  cli.Prefix,
		RDF:     cli.RDF,
		Backend: deps.Backend,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	parser := html.NewParser(opts)
	switch cli.Titles {
	case "trafilatura":
		parser.Metadata = trafilatura.NewExtractor()
	case "readability":
		parser.Metadata = readability.NewExtractor()
	}
	deps.Extractor = ftmlslog.NewLoggingExtractor(parser, logger)

	deps.Converter = htmltomarkdown.NewConverter()
	deps.Texter = goquery.NewTextExtractor()
	deps.Harvester = &etree.Harvester{Indent: 2}
	return nil
}

// NewLogger returns a logger writing text or JSON records to w.
func NewLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, ftml.Errorf(ftml.EINVALID, "invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, ftml.Errorf(ftml.EINVALID, "invalid log format %q", format)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ftml.db"
	}
	dir := filepath.Join(home, ".ftml")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "ftml.db")
}
