package main

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/clean-api/internal/database"
	"github.com/deppfellow/clean-api/internal/model"
	"github.com/deppfellow/clean-api/internal/repository"
	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated Usuarios in a single transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			db, err := database.New(rt.cfg, &rt.log, rt.loggerService)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := seedUsuarios(cmd.Context(), db, count, time.Now().Unix()); err != nil {
				return err
			}

			rt.log.Info().Int("count", count).Msg("seeded usuarios")
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 15, "number of users to insert")

	return cmd
}

// seedUsuarios inserts count users. batch keeps emails unique across runs.
func seedUsuarios(ctx context.Context, db *database.Database, count int, batch int64) error {
	return db.InTx(ctx, func(dbCtx *database.Context) error {
		repos, err := repository.NewRepositoriesWithContext(dbCtx)
		if err != nil {
			return err
		}

		for i := 1; i <= count; i++ {
			_, err := repos.Usuario.Add(ctx, &model.Usuario{
				Nome:  fmt.Sprintf("Usuario %d", i),
				Email: fmt.Sprintf("usuario%d.%d@example.com", i, batch),
			})
			if err != nil {
				return fmt.Errorf("seeding usuario %d: %w", i, err)
			}
		}
		return nil
	})
}
