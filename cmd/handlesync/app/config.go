package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jkobl1/berlin-is-twitter-data/internal/cmd/globals"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/constants"
	"github.com/jkobl1/berlin-is-twitter-data/pkg/errors"
)

// envPrefix namespaces the environment variables viper reads automatically.
const envPrefix = "HANDLESYNC"

// Sink names accepted by the sink setting.
const (
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
	SinkYAML     = "yaml"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Directory credentials and endpoint
	ConsumerKey    string
	ConsumerSecret string
	APIURL         string

	// Roster
	RosterURL  string
	RosterFile string
	Countries  []string

	// Persistence
	Sink          string
	DatabasePath  string
	DatabaseURL   string
	DatabaseTable string
	OutputFile    string

	// Reconciliation
	BatchSize         int
	FailedBatchPolicy string
	MetricsFile       string

	// Logging configuration. LogLevel is set by --log-level only;
	// DefaultLogLevel comes from the environment or the config file and
	// ranks below -v/-q.
	LogLevel        string
	DefaultLogLevel string
	LogFormat       string
	LogOutput       string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or ~/.handlesync.yaml / ./.handlesync.yaml)
// 5. Defaults
//
// An explicitly named config file must exist; the default locations are optional.
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := bindEnv(v); err != nil {
		return nil, errors.NewConfigError("environment", "failed to bind environment variables", err)
	}
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config file", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".handlesync")
		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ConsumerKey:    v.GetString("consumer_key"),
		ConsumerSecret: v.GetString("consumer_secret"),
		APIURL:         v.GetString("api_url"),

		RosterURL:  v.GetString("roster_url"),
		RosterFile: v.GetString("roster_file"),
		Countries:  splitList(v.GetStringSlice("countries")),

		Sink:          strings.ToLower(v.GetString("sink")),
		DatabasePath:  v.GetString("database_path"),
		DatabaseURL:   v.GetString("database_url"),
		DatabaseTable: v.GetString("database_table"),
		OutputFile:    v.GetString("output_file"),

		BatchSize:         v.GetInt("batch_size"),
		FailedBatchPolicy: v.GetString("failed_batch_policy"),
		MetricsFile:       v.GetString("metrics_file"),

		DefaultLogLevel: v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		LogOutput:       v.GetString("log_output"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars. Only flags the
// user actually set override configuration.
func (c *Config) UpdateFromFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed(globals.FlagVerbose) {
		c.Verbose, _ = flags.GetBool(globals.FlagVerbose)
	}
	if changed(globals.FlagQuiet) {
		c.Quiet, _ = flags.GetBool(globals.FlagQuiet)
	}
	if changed(globals.FlagNoColor) {
		c.NoColor, _ = flags.GetBool(globals.FlagNoColor)
	}
	if changed(globals.FlagFormat) {
		c.Format, _ = flags.GetString(globals.FlagFormat)
	}
	if changed(globals.FlagLogLevel) {
		c.LogLevel, _ = flags.GetString(globals.FlagLogLevel)
	}

	if changed(globals.FlagRosterFile) {
		c.RosterFile, _ = flags.GetString(globals.FlagRosterFile)
	}
	if changed(globals.FlagRosterURL) {
		c.RosterURL, _ = flags.GetString(globals.FlagRosterURL)
	}
	if changed(globals.FlagCountry) {
		countries, _ := flags.GetStringSlice(globals.FlagCountry)
		c.Countries = splitList(countries)
	}

	if changed(globals.FlagSink) {
		sink, _ := flags.GetString(globals.FlagSink)
		c.Sink = strings.ToLower(sink)
	}
	if changed(globals.FlagDatabasePath) {
		c.DatabasePath, _ = flags.GetString(globals.FlagDatabasePath)
	}
	if changed(globals.FlagDatabaseURL) {
		c.DatabaseURL, _ = flags.GetString(globals.FlagDatabaseURL)
	}
	if changed(globals.FlagDatabaseTable) {
		c.DatabaseTable, _ = flags.GetString(globals.FlagDatabaseTable)
	}
	if changed(globals.FlagOutputFile) {
		c.OutputFile, _ = flags.GetString(globals.FlagOutputFile)
	}
	if changed(globals.FlagBatchSize) {
		c.BatchSize, _ = flags.GetInt(globals.FlagBatchSize)
	}
	if changed(globals.FlagFailedBatchPolicy) {
		c.FailedBatchPolicy, _ = flags.GetString(globals.FlagFailedBatchPolicy)
	}
	if changed(globals.FlagMetricsFile) {
		c.MetricsFile, _ = flags.GetString(globals.FlagMetricsFile)
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// Try to load .env files in order of precedence
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindEnv binds keys whose environment variables do not follow the prefix.
// The first variable that is set wins.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"consumer_key":    {"HANDLESYNC_CONSUMER_KEY", "TWITTER_CONSUMER_KEY", "MORPH_TWITTER_CONSUMER_KEY"},
		"consumer_secret": {"HANDLESYNC_CONSUMER_SECRET", "TWITTER_CONSUMER_SECRET", "MORPH_TWITTER_CONSUMER_SECRET"},
		"log_level":       {"HANDLESYNC_LOG_LEVEL", "LOG_LEVEL"},
		"log_format":      {"HANDLESYNC_LOG_FORMAT", "LOG_FORMAT"},
		"log_output":      {"HANDLESYNC_LOG_OUTPUT", "LOG_OUTPUT"},
	}
	for key, names := range bindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("roster_url", constants.DefaultRosterURL)
	v.SetDefault("sink", SinkSQLite)
	v.SetDefault("database_path", constants.DefaultDatabasePath)
	v.SetDefault("database_table", constants.DefaultTable)
	v.SetDefault("output_file", constants.DefaultOutputFile)
	v.SetDefault("batch_size", constants.DefaultLookupBatchSize)
	v.SetDefault("failed_batch_policy", "mark")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// splitList flattens comma-separated entries and drops blanks, so
// HANDLESYNC_COUNTRIES=DE,FR and repeated --country flags both work.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
