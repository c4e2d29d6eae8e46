package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"risk-profile-service/internal/config"
	pgloader "risk-profile-service/internal/infra/postgres"
	redisstore "risk-profile-service/internal/infra/redis"
	"risk-profile-service/internal/questionnaire"
)

// NewImportCmd stores questionnaire files in Postgres so every instance serves them.
func NewImportCmd(configPath *string) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a questionnaire file and store it in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return errNoPostgres
			}
			log := newLogger(cfg)
			defer log.Sync() //nolint:errcheck

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			// The table stores JSON.
			if questionnaire.FormatFromPath(path) == questionnaire.FormatYAML {
				if data, err = questionnaire.YAMLToJSON(data); err != nil {
					return err
				}
			}
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			ctx := cmd.Context()
			if err := runMigrations(ctx, cfg, log); err != nil {
				return err
			}
			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pgloader.NewGraphLoader(pool).Save(ctx, id, data); err != nil {
				return err
			}
			if err := evictCachedGraph(ctx, cfg, id); err != nil {
				log.Warn("cached questionnaire not evicted", zap.String("questionnaire", id), zap.Error(err))
			}
			log.Info("questionnaire imported", zap.String("questionnaire", id), zap.String("file", path))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %q\n", path, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "questionnaire id (defaults to the file name)")
	return cmd
}

// evictCachedGraph drops the Redis copy of a questionnaire so running servers
// reload the imported version.
func evictCachedGraph(ctx context.Context, cfg config.Config, questionnaireID string) error {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	return redisstore.NewGraphRepository(client, nil, 0, nil).Invalidate(ctx, questionnaireID)
}
