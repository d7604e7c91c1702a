// Command flabictl provisions the database and admin accounts of the
// microsite.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flabi/internal/infra"
)

const programName = "flabictl"

// newViper resolves settings from flags first, then the environment
// (DATABASE_URL for database-url and so on).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("store-driver", infra.StoreDriverPostgres)
	return v
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           programName,
		Short:         "Administer the Flabi on tour microsite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.String("store-driver", infra.StoreDriverPostgres, "postgres or sqlite (env STORE_DRIVER)")
	flags.String("database-url", "", "Postgres connection string (env DATABASE_URL)")
	flags.String("sqlite-path", "", "SQLite database file (env SQLITE_PATH)")
	flags.Bool("debug", false, "log SQL statements")
	for _, name := range []string{"store-driver", "database-url", "sqlite-path", "debug"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		migrateCommand(v),
		adminCommand(v),
		sqllintCommand(),
	)
	return root
}

// storeConfig is the subset of infra.Config the commands need.
func storeConfig(v *viper.Viper) *infra.Config {
	return &infra.Config{
		StoreDriver: strings.ToLower(v.GetString("store-driver")),
		DatabaseURL: v.GetString("database-url"),
		SQLitePath:  v.GetString("sqlite-path"),
	}
}

func cliLogger(v *viper.Viper) zerolog.Logger {
	level := zerolog.InfoLevel
	if v.GetBool("debug") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Str("component", programName).Logger()
}

func main() {
	_ = godotenv.Load()
	if err := newRootCommand(newViper()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
