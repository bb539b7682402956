// Command sync mirrors the UNHCR dataset into the database. Intended to run
// as a cron job or manually after schema setup.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	geostore "refugeflow/internal/geo/store"
	"refugeflow/internal/importer"
	"refugeflow/internal/platform/logger"
	"refugeflow/internal/platform/postgres"
	popstore "refugeflow/internal/population/store"
)

var (
	dsn     string
	baseURL string
	geoOnly bool
)

var rootCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror UNHCR displacement statistics into the database",
	Long: `Pulls the country dimension and the population figures from the UNHCR
public statistics API and loads them into the configured PostgreSQL database.
Countries are upserted by ISO code, population rows are appended.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		connStr := viper.GetString("database.dsn")
		if connStr == "" {
			return fmt.Errorf("database.dsn is required (via --dsn, config, or DATABASE_URL)")
		}

		log := logger.New()
		ctx := cmd.Context()

		db, err := postgres.Open(ctx, connStr)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		client := importer.NewClient(importer.WithBaseURL(viper.GetString("unhcr.base_url")))
		imp := importer.New(client,
			geostore.NewPostgres(db),
			popstore.NewPostgres(db),
			importer.WithLogger(log),
		)

		if geoOnly {
			return imp.ImportGeo(ctx)
		}
		return imp.Run(ctx)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string")
	rootCmd.Flags().StringVar(&baseURL, "base-url", importer.DefaultBaseURL, "UNHCR API base URL")
	rootCmd.Flags().BoolVar(&geoOnly, "geo-only", false, "only refresh the country dimension")

	_ = viper.BindPFlag("database.dsn", rootCmd.Flags().Lookup("dsn"))
	_ = viper.BindPFlag("unhcr.base_url", rootCmd.Flags().Lookup("base-url"))
	_ = viper.BindEnv("database.dsn", "DATABASE_URL")
}

func initConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName("refugeflow")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// A config file is optional; flags and env cover the common case.
	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
