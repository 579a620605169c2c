package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/globals"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
)

// TestLoadConfig verifies basic config loading and defaults.
func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.APIURL != constants.DefaultAPIURL {
		t.Errorf("APIURL = %s, want %s", config.APIURL, constants.DefaultAPIURL)
	}
	if config.Sink != SinkSQLite {
		t.Errorf("Sink = %s, want %s", config.Sink, SinkSQLite)
	}
	if config.DatabasePath != constants.DefaultDatabasePath {
		t.Errorf("DatabasePath = %s, want %s", config.DatabasePath, constants.DefaultDatabasePath)
	}
	if config.DatabaseTable != constants.DefaultTable {
		t.Errorf("DatabaseTable = %s, want %s", config.DatabaseTable, constants.DefaultTable)
	}
	if config.BatchSize != constants.DefaultLookupBatchSize {
		t.Errorf("BatchSize = %d, want %d", config.BatchSize, constants.DefaultLookupBatchSize)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	// LogLevel stays empty so -v/-q can apply
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty", config.LogLevel)
	}
}

// TestConfig_Credentials verifies every supported credential variable.
func TestConfig_Credentials(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantKey    string
		wantSecret string
	}{
		{
			name:       "twitter variables",
			env:        map[string]string{"TWITTER_CONSUMER_KEY": "k1", "TWITTER_CONSUMER_SECRET": "s1"},
			wantKey:    "k1",
			wantSecret: "s1",
		},
		{
			name:       "morph variables",
			env:        map[string]string{"MORPH_TWITTER_CONSUMER_KEY": "k2", "MORPH_TWITTER_CONSUMER_SECRET": "s2"},
			wantKey:    "k2",
			wantSecret: "s2",
		},
		{
			name: "prefixed variables win",
			env: map[string]string{
				"HANDLESYNC_CONSUMER_KEY":    "k3",
				"MORPH_TWITTER_CONSUMER_KEY": "k2",
				"TWITTER_CONSUMER_SECRET":    "s1",
			},
			wantKey:    "k3",
			wantSecret: "s1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for _, name := range []string{
				"HANDLESYNC_CONSUMER_KEY", "TWITTER_CONSUMER_KEY", "MORPH_TWITTER_CONSUMER_KEY",
				"HANDLESYNC_CONSUMER_SECRET", "TWITTER_CONSUMER_SECRET", "MORPH_TWITTER_CONSUMER_SECRET",
			} {
				t.Setenv(name, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config, err := LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if config.ConsumerKey != tt.wantKey {
				t.Errorf("ConsumerKey = %q, want %q", config.ConsumerKey, tt.wantKey)
			}
			if config.ConsumerSecret != tt.wantSecret {
				t.Errorf("ConsumerSecret = %q, want %q", config.ConsumerSecret, tt.wantSecret)
			}
		})
	}
}

// TestConfig_EnvironmentVariables verifies prefixed environment variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HANDLESYNC_SINK", "YAML")
	t.Setenv("HANDLESYNC_COUNTRIES", "DE, FR")
	t.Setenv("HANDLESYNC_BATCH_SIZE", "25")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Sink != SinkYAML {
		t.Errorf("Sink = %s, want yaml", config.Sink)
	}
	if !reflect.DeepEqual(config.Countries, []string{"DE", "FR"}) {
		t.Errorf("Countries = %v, want [DE FR]", config.Countries)
	}
	if config.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", config.BatchSize)
	}
	if config.DefaultLogLevel != "debug" {
		t.Errorf("DefaultLogLevel = %s, want debug", config.DefaultLogLevel)
	}
}

// TestConfig_File verifies an explicit config file and a .env file.
func TestConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("TWITTER_CONSUMER_KEY", "")

	path := filepath.Join(dir, "handlesync.yaml")
	content := `sink: postgres
database_url: postgres://localhost/handlesync
countries:
  - GB
failed_batch_policy: drop
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TWITTER_CONSUMER_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set;
	// t.Setenv restores the original value
	os.Unsetenv("TWITTER_CONSUMER_KEY")

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Sink != SinkPostgres {
		t.Errorf("Sink = %s, want postgres", config.Sink)
	}
	if config.DatabaseURL != "postgres://localhost/handlesync" {
		t.Errorf("DatabaseURL = %s", config.DatabaseURL)
	}
	if !reflect.DeepEqual(config.Countries, []string{"GB"}) {
		t.Errorf("Countries = %v, want [GB]", config.Countries)
	}
	if config.FailedBatchPolicy != "drop" {
		t.Errorf("FailedBatchPolicy = %s, want drop", config.FailedBatchPolicy)
	}
	if config.ConsumerKey != "from-dotenv" {
		t.Errorf("ConsumerKey = %q, want from-dotenv", config.ConsumerKey)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

// TestConfig_MissingFile verifies an explicit config file must exist.
func TestConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadConfig() succeeded for a missing file")
	}
}

// TestConfig_UpdateFromFlags verifies that only changed flags override configuration.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{
		Sink:         SinkSQLite,
		DatabasePath: "keep.sqlite",
		BatchSize:    100,
		Countries:    []string{"DE"},
	}

	cmd := &cobra.Command{Use: "run", RunE: func(*cobra.Command, []string) error { return nil }}
	globals.AddFlags(cmd)
	globals.AddRosterFlags(cmd)
	globals.AddRunFlags(cmd)
	cmd.SetArgs([]string{"--sink", "YAML", "--batch-size", "10", "--country", "fr,ee", "-v"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	config.UpdateFromFlags(cmd)

	if config.Sink != SinkYAML {
		t.Errorf("Sink = %s, want yaml", config.Sink)
	}
	if config.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", config.BatchSize)
	}
	if !reflect.DeepEqual(config.Countries, []string{"fr", "ee"}) {
		t.Errorf("Countries = %v, want [fr ee]", config.Countries)
	}
	if !config.Verbose {
		t.Error("Verbose not set from flag")
	}
	if config.DatabasePath != "keep.sqlite" {
		t.Errorf("DatabasePath = %s, unchanged flag overrode config", config.DatabasePath)
	}
}
