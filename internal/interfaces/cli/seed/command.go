package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sokofiti/internal/domain/billing"
	vo "sokofiti/internal/domain/billing/valueobjects"
	"sokofiti/internal/infrastructure/config"
	"sokofiti/internal/infrastructure/database"
	"sokofiti/internal/infrastructure/repository"
	"sokofiti/internal/shared/biztime"
	"sokofiti/internal/shared/logger"
)

var (
	env       string
	plansFile string
)

// planEntry is one plan in the catalog seed file.
type planEntry struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Price     int64    `yaml:"price"`
	Period    string   `yaml:"period"`
	Credits   int      `yaml:"credits"`
	SortOrder int      `yaml:"sort_order"`
	Features  []string `yaml:"features"`
}

type catalogFile struct {
	Plans []planEntry `yaml:"plans"`
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the subscription plan catalog",
		Long:  `Load the plan catalog from a YAML file into the database. Existing plans are updated in place.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&plansFile, "file", "f", "./configs/plans.yaml", "Path to the plan catalog file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	catalog, err := loadCatalog(plansFile)
	if err != nil {
		return err
	}

	planRepo := repository.NewPlanRepository(database.Get(), log)
	ctx := context.Background()

	created, updated := 0, 0
	for _, entry := range catalog.Plans {
		period, err := vo.ParsePlanPeriod(entry.Period)
		if err != nil {
			return fmt.Errorf("plan %q: %w", entry.ID, err)
		}

		plan, err := billing.NewPlan(entry.ID, entry.Name, entry.Price, period,
			entry.Features, entry.Credits, entry.SortOrder)
		if err != nil {
			return fmt.Errorf("plan %q: %w", entry.ID, err)
		}

		_, err = planRepo.FindByID(ctx, entry.ID)
		switch {
		case errors.Is(err, billing.ErrPlanNotFound):
			if err := planRepo.Create(ctx, plan); err != nil {
				return fmt.Errorf("failed to create plan %q: %w", entry.ID, err)
			}
			created++
		case err != nil:
			return fmt.Errorf("failed to look up plan %q: %w", entry.ID, err)
		default:
			if err := planRepo.Update(ctx, plan); err != nil {
				return fmt.Errorf("failed to update plan %q: %w", entry.ID, err)
			}
			updated++
		}
	}

	log.Infow("plan catalog seeded",
		"file", plansFile, "created", created, "updated", updated)
	fmt.Printf("Seeded %d plans (%d created, %d updated)\n", created+updated, created, updated)
	return nil
}

func loadCatalog(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(catalog.Plans) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no plans", path)
	}
	return &catalog, nil
}
