package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/ftml/cmd/ftml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"extract", "build", "modules", "triples", "harvest", "search"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(main.YAMLLoader),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range commands {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newMain(filepath.Join(t.TempDir(), "test.db")).Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "Flags:")
}

func TestYAMLLoader(t *testing.T) {
	t.Parallel()

	t.Run("reads global and command flags", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "ftml.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
log-level: debug
cache_size: 16
build:
  concurrency: 2
  force: true
`), 0644))

		cli := &main.CLI{}
		parser, err := kong.New(cli,
			kong.Exit(func(int) {}),
			kong.Configuration(main.YAMLLoader, path),
		)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"build", dir})

		require.NoError(t, err)
		assert.Equal(t, "debug", cli.LogLevel)
		assert.Equal(t, 16, cli.CacheSize)
		assert.Equal(t, 2, cli.Build.Concurrency)
		assert.True(t, cli.Build.Force)
	})

	t.Run("command line flags win", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "ftml.yaml")
		require.NoError(t, os.WriteFile(path, []byte("prefix: data-x-\n"), 0644))

		cli := &main.CLI{}
		parser, err := kong.New(cli,
			kong.Exit(func(int) {}),
			kong.Configuration(main.YAMLLoader, path),
		)
		require.NoError(t, err)

		_, err = parser.Parse([]string{"--prefix", "data-y-", "modules"})

		require.NoError(t, err)
		assert.Equal(t, "data-y-", cli.Prefix)
	})

	t.Run("rejects malformed files", func(t *testing.T) {
		t.Parallel()

		_, err := main.YAMLLoader(bytes.NewBufferString("build: [unterminated"))

		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("writes json records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := main.NewLogger(&buf, "json", "info")
		require.NoError(t, err)

		logger.Info("hello", "n", 1)

		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("filters by level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, err := main.NewLogger(&buf, "text", "ERROR")
		require.NoError(t, err)

		logger.Warn("quiet")

		assert.Empty(t, buf.String())
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		t.Parallel()

		_, err := main.NewLogger(&bytes.Buffer{}, "xml", "info")

		require.Error(t, err)
	})
}
