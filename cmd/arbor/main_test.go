package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newApp().Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestIdArg(t *testing.T) {
	run := func(args ...string) error {
		app := &cli.App{
			Name: "test",
			Commands: []*cli.Command{
				{
					Name: "show",
					Action: func(c *cli.Context) error {
						_, err := idArg(c)
						return err
					},
				},
			},
		}
		return app.Run(append([]string{"test", "show"}, args...))
	}

	t.Run("valid id", func(t *testing.T) {
		assert.NoError(t, run("42"))
	})

	t.Run("missing id", func(t *testing.T) {
		err := run()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one id")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		err := run("forty-two")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid id")
	})
}
