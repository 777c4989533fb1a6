package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/folio-labs/portfolio-backend/internal/bootstrap"
	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/projects/maintenance"
	projectsrepo "github.com/folio-labs/portfolio-backend/internal/projects/repository"
	projectsservice "github.com/folio-labs/portfolio-backend/internal/projects/service"
	"github.com/folio-labs/portfolio-backend/internal/storage/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := postgres.NewConnection(ctx, &a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			a.logger.Info("schema migrated")
			return nil
		},
	}
}

type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Overview    string   `yaml:"overview"`
	Description string   `yaml:"description"`
	TechStack   []string `yaml:"techStack"`
	Images      []string `yaml:"images"`
	Thumbnail   string   `yaml:"thumbnail"`
	LiveURL     string   `yaml:"liveUrl"`
	RepoURL     string   `yaml:"repoUrl"`
	Category    string   `yaml:"category"`
	Featured    bool     `yaml:"featured"`
}

func (p seedProject) toInput() domain.CreateProjectInput {
	return domain.CreateProjectInput{
		Title:       p.Title,
		Slug:        p.Slug,
		Overview:    p.Overview,
		Description: p.Description,
		TechStack:   p.TechStack,
		Images:      p.Images,
		Thumbnail:   p.Thumbnail,
		LiveURL:     p.LiveURL,
		RepoURL:     p.RepoURL,
		Category:    p.Category,
		Featured:    p.Featured,
	}
}

func loadSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

type projectCreator interface {
	Create(ctx context.Context, in domain.CreateProjectInput) (*domain.Project, error)
}

// seedProjects creates each project in file order. Slugs that already exist
// are skipped so a seed file can be applied repeatedly.
func seedProjects(ctx context.Context, svc projectCreator, f *seedFile, logger *zap.Logger) (created, skipped int, err error) {
	for _, p := range f.Projects {
		proj, err := svc.Create(ctx, p.toInput())
		if errors.Is(err, domain.ErrDuplicateSlug) {
			skipped++
			logger.Info("seed skipped, slug exists", zap.String("title", p.Title))
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("seed %q: %w", p.Title, err)
		}
		created++
		logger.Info("seeded project", zap.String("id", proj.ID), zap.String("slug", proj.Slug), zap.Int("displayOrder", proj.DisplayOrder))
	}
	return created, skipped, nil
}

func newSeedCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create projects from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadSeed(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.NewConnection(ctx, &a.cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := projectsservice.NewProjectService(
				projectsrepo.NewProjectRepository(db, a.cfg.Database.TxTimeout),
				a.cfg.Limits.ReorderMaxBatch,
			)
			created, skipped, err := seedProjects(ctx, svc, f, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", created, skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "seed file path")
	return cmd
}

func newCompactCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Renumber project display order densely from 0",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := bootstrap.OpenPool(ctx, bootstrap.OptionsFromConfig(&a.cfg.Database))
			if err != nil {
				return err
			}
			defer pool.Close()

			changes, err := maintenance.NewCompactor(pool).Compact(ctx, dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ch := range changes {
				fmt.Fprintf(out, "%s  %d -> %d\n", ch.ID, ch.From, ch.To)
			}
			verb := "renumbered"
			if dryRun {
				verb = "would renumber"
			}
			fmt.Fprintf(out, "%s %d projects\n", verb, len(changes))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without writing")
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run maintenance jobs on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := bootstrap.OpenPool(ctx, bootstrap.OptionsFromConfig(&a.cfg.Database))
			if err != nil {
				return err
			}
			defer pool.Close()

			compactor := maintenance.NewCompactor(pool)
			s := maintenance.NewScheduler(a.logger, nil)
			err = s.Add(ctx, "compact-display-order", spec, func(ctx context.Context) error {
				changes, err := compactor.Compact(ctx, false)
				if err != nil {
					return err
				}
				a.logger.Info("display order compacted", zap.Int("changed", len(changes)))
				return nil
			})
			if err != nil {
				return fmt.Errorf("schedule %q: %w", spec, err)
			}

			s.Run(ctx)
			a.logger.Info("scheduler stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", maintenance.NightlySpec, "cron spec with seconds field")
	return cmd
}
