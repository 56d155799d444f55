package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ftml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Documents ftml.DocumentService
	Modules   ftml.ModuleService
	Triples   ftml.TripleService
	Backend   ftml.Backend

	// Roots maps archive root directories to archives. Commands register
	// the directories they read so relative image paths resolve.
	Roots map[string]ftml.ArchiveURI

	Extractor ftml.Extractor
	Converter ftml.Converter
	Texter    ftml.TextExtractor
	Harvester ftml.Harvester
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flag defaults from a YAML file"`

	DB        string            `env:"FTML_DB" help:"SQLite database path (default ~/.ftml/ftml.db)"`
	Base      string            `env:"FTML_BASE" default:"http://localhost" help:"Base URI of archives"`
	Prefix    string            `env:"FTML_PREFIX" default:"data-ftml-" help:"Attribute prefix of FTML annotations"`
	RDF       bool              `env:"FTML_RDF" help:"Emit relational triples"`
	Titles    string            `env:"FTML_TITLES" default:"none" enum:"none,trafilatura,readability" help:"Title fallback for documents without a doctitle (none, trafilatura, readability)"`
	Roots     map[string]string `name:"root" env:"FTML_ROOTS" help:"Archive root directories as dir=archive"`
	CacheSize int               `env:"FTML_CACHE_SIZE" default:"4096" help:"Modules kept in memory"`
	LogFormat string            `env:"FTML_LOG_FORMAT" default:"text" enum:"text,json" help:"Log format (text, json)"`
	LogLevel  string            `env:"FTML_LOG_LEVEL" default:"warn" help:"Log level (debug, info, warn, error)"`

	Extract ExtractCmd `cmd:"" help:"Extract one document"`
	Build   BuildCmd   `cmd:"" help:"Extract an archive into the database"`
	Modules ModulesCmd `cmd:"" help:"List stored modules"`
	Triples TriplesCmd `cmd:"" help:"Print the stored triples of a document"`
	Harvest HarvestCmd `cmd:"" help:"Write a MathWebSearch harvest of the top-level terms"`
	Search  SearchCmd  `cmd:"" help:"Print search entries as JSON lines"`
}

// Archive returns the archive with the given id under the base URI.
func (c *CLI) Archive(id string) ftml.ArchiveURI {
	return ftml.ArchiveURI{Base: c.Base, ID: id}
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	File    string `arg:"" type:"existingfile" help:"HTML file"`
	Archive string `short:"a" env:"FTML_ARCHIVE" default:"local" help:"Archive id"`
	Root    string `help:"Archive root directory (default: the file's directory)"`
	Format  string `short:"f" default:"json" enum:"json,html,nt,ttl" help:"Output format (json, html, nt, ttl)"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Dir         string `arg:"" type:"existingdir" help:"Archive source directory"`
	Archive     string `short:"a" env:"FTML_ARCHIVE" default:"local" help:"Archive id"`
	Out         string `short:"o" help:"Also write HTML, JSON and N-Triples files to this directory"`
	Force       bool   `short:"f" help:"Rebuild unchanged documents"`
	Concurrency int    `short:"c" env:"FTML_CONCURRENCY" default:"4" help:"Documents extracted in parallel"`
}

// ModulesCmd is the "modules" subcommand.
type ModulesCmd struct {
	Archive  string `short:"a" help:"Only modules of this archive"`
	Document string `short:"d" help:"Only modules declared in this document URI"`
	Limit    int    `short:"n" help:"Maximum number of modules"`
}

// TriplesCmd is the "triples" subcommand.
type TriplesCmd struct {
	Document string `arg:"" help:"Document URI"`
	Format   string `short:"f" default:"nt" enum:"nt,ttl" help:"Output format (nt, ttl)"`
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	Paths   []string `arg:"" type:"existingpath" help:"HTML files or directories"`
	Archive string   `short:"a" env:"FTML_ARCHIVE" default:"local" help:"Archive id"`
	Out     string   `short:"o" help:"Output file (default stdout)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Paths   []string `arg:"" type:"existingpath" help:"HTML files or directories"`
	Archive string   `short:"a" env:"FTML_ARCHIVE" default:"local" help:"Archive id"`
	Where   string   `short:"w" help:"Filter expression, e.g. kind == \"definition\""`
}
