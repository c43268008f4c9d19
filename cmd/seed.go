package cmd

import (
	"github.com/riceguard/apiserver/config"
	"github.com/riceguard/apiserver/internal/db"
	"github.com/riceguard/apiserver/internal/services"
	"github.com/riceguard/apiserver/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// seedCmd populates the recommendation catalog. Safe to run any number
// of times: existing entries are left untouched.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the recommendation catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := logrus.New()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		catalog := services.NewCatalogService(store.NewRecommendationRepository(dbConn), log)
		inserted, err := catalog.Seed(cmd.Context())
		if err != nil {
			return err
		}
		log.WithField("inserted", inserted).Info("recommendation seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
