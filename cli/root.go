package cli

import (
	"os"
	"os/user"

	"github.com/fatih/color"
	"github.com/jmoiron/sqlx"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/forms"
	"github.com/mbolis/quick-forms/log"
	"github.com/spf13/cobra"
)

const adminRole = "admin"

var (
	configPath string
	debug      bool
	dbUrl      string
)

var rootCmd = &cobra.Command{
	Use:           "qforms",
	Short:         "Form builder and submission service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at DEBUG level")
	rootCmd.PersistentFlags().StringVar(&dbUrl, "db-url", "", "path to SQLite3 DB file")

	rootCmd.AddCommand(serveCmd, userCmd, formCmd)
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// loadConfig reads the configuration and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DBUrl = dbUrl
	}
	log.SetOutput(cmd.ErrOrStderr())
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func openDB(cmd *cobra.Command) (config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}

func newEngine(db *sqlx.DB) *forms.Engine {
	return forms.NewEngine(database.NewFormStore(db), forms.RoleAuthorizer{Role: adminRole})
}

// localCredential identifies the operator of the command line tools, who has
// direct access to the database and so acts as an administrator.
func localCredential() forms.Credential {
	name := "cli"
	if u, err := user.Current(); err == nil {
		name = "cli:" + u.Username
	}
	return forms.Credential{Subject: name, Roles: []string{adminRole}}
}
