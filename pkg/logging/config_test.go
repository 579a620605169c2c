package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/logging"
)

func TestConfigFunctions(t *testing.T) {
	originalLogger := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		logging.SetDefault(originalLogger)
		zerolog.SetGlobalLevel(originalLevel)
	}()

	t.Run("DefaultConfig returns sensible defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("file output writes json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "handlesync.log")

		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "auto",
			Output: path,
			Fields: map[string]any{"run": "nightly"},
		})
		logger.Info().Str("person_id", "P1").Msg("Handle changed")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		output := string(content)
		assert.Contains(t, output, `"message":"Handle changed"`)
		assert.Contains(t, output, `"person_id":"P1"`)
		assert.Contains(t, output, `"run":"nightly"`)
	})

	t.Run("console format on a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")

		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:   "info",
			Format:  "console",
			Output:  path,
			NoColor: true,
		})
		logger.Info().Msg("console test")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "console test")
		assert.Contains(t, string(content), "INF")
	})

	t.Run("level filtering", func(t *testing.T) {
		testCases := []struct {
			level     string
			logFunc   func() *zerolog.Event
			shouldLog bool
		}{
			{"debug", logging.Debug, true},
			{"info", logging.Info, true},
			{"info", logging.Debug, false},
			{"warn", logging.Warn, true},
			{"warn", logging.Info, false},
			{"error", logging.Error, true},
			{"error", logging.Warn, false},
			{"bogus", logging.Info, true},
		}

		for _, tc := range testCases {
			t.Run(tc.level, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "level.log")
				logging.Configure(&logging.Config{Level: tc.level, Format: "json", Output: path})
				tc.logFunc().Msg("test")

				content, err := os.ReadFile(path)
				if !tc.shouldLog {
					// lumberjack only creates the file on first write
					if err == nil {
						assert.Empty(t, string(content))
					}
					return
				}
				require.NoError(t, err)
				assert.Contains(t, string(content), "test")
			})
		}
	})
}
