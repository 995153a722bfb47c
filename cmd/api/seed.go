package main

import (
	"os"
	"os/signal"
	"syscall"

	"proposal_builder/internal/adapter/http/routes"
	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/infrastructure/database"
	"proposal_builder/internal/usecase"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogFile is the layout of a seed file.
type catalogFile struct {
	Services []entities.Service `yaml:"services"`
	Packages []entities.Package `yaml:"packages"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the service and package catalogs from a YAML file into DynamoDB",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, _ := cmd.Flags().GetString("file")
		catalog, err := readCatalogFile(path)
		if err != nil {
			return err
		}

		ddb, err := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return err
		}
		services, packages := routes.NewCatalogRepositories(ddb, cfg)

		res, err := usecase.NewCatalogUseCase(services, packages).Seed(ctx, catalog.Services, catalog.Packages)
		if err != nil {
			return eris.Wrap(err, "seed")
		}

		zap.L().Info("catalog seeded",
			zap.String("file", path),
			zap.Int("services", res.Services),
			zap.Int("packages", res.Packages),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("file", "catalog.yaml", "catalog YAML file")
	rootCmd.AddCommand(seedCmd)
}

func readCatalogFile(path string) (catalogFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return catalogFile{}, eris.Wrapf(err, "seed: read %s", path)
	}
	var out catalogFile
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return catalogFile{}, eris.Wrapf(err, "seed: parse %s", path)
	}
	if len(out.Services) == 0 && len(out.Packages) == 0 {
		return catalogFile{}, eris.Errorf("seed: %s has no services or packages", path)
	}
	return out, nil
}
