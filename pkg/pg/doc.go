// Package pg bootstraps PostgreSQL access on top of pgx/v5 and goose/v3.
//
// Config is populated from PG_* environment variables. Connect opens a
// *pgxpool.Pool and pings it, retrying with a growing delay until the
// database answers or the context ends. Migrate and MigrateFS apply goose
// migrations from a directory or from an embedded filesystem, routing goose
// output through a structured logger. Healthcheck wraps Ping for readiness
// probes.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.MigrateFS(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// IsNotFoundError and IsDuplicateKeyError classify pgx errors so repositories
// can map them to their own sentinels.
package pg
