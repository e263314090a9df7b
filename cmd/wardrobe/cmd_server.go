package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/wardrobe/config"
	"github.com/shashiranjanraj/wardrobe/database/seeders"
	"github.com/shashiranjanraj/wardrobe/internal/kernel"
	"github.com/shashiranjanraj/wardrobe/internal/server"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/cache"
	"github.com/shashiranjanraj/wardrobe/pkg/database"
	"github.com/shashiranjanraj/wardrobe/pkg/logger"
	"github.com/shashiranjanraj/wardrobe/pkg/middleware"
	"github.com/shashiranjanraj/wardrobe/pkg/migration"
	"github.com/shashiranjanraj/wardrobe/pkg/storage"
	"github.com/shashiranjanraj/wardrobe/pkg/workerpool"
)

var servePort string

// wardrobe serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := config.Load(); err != nil {
			return err
		}

		db, err := database.Connect()
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("database: close failed", "error", err)
			}
		}()

		if config.AutoMigrate() {
			if err := migration.New(db, nil).Run(); err != nil {
				return err
			}
			if err := seeders.RunAll(ctx, db, nil); err != nil {
				return err
			}
		}

		disk, err := storage.FromConfig(ctx)
		if err != nil {
			return err
		}

		var rateStore middleware.RateStore = middleware.NewMemoryStore()
		rdb, err := cache.Connect(ctx)
		switch {
		case err != nil:
			logger.Warn("redis unavailable; rate limits are per process", "error", err)
		case rdb != nil:
			defer rdb.Close()
			rateStore = middleware.NewRedisStore(rdb)
		}

		// Shut down after the server so in-flight cleanups finish.
		cleanup := workerpool.New(config.CleanupWorkers())
		defer cleanup.Shutdown()

		port := servePort
		if port == "" {
			port = config.AppPort()
		}

		return server.Run(ctx, server.Options{
			Addr: ":" + port,
			Handler: kernel.NewHandler(kernel.Deps{
				DB:        db,
				Disk:      disk,
				RateStore: rateStore,
				Issuer:    auth.NewIssuerFromConfig(),
				Cleanup:   cleanup,
			}),
			ShutdownTimeout: config.ShutdownTimeout(),
		})
	},
}

// wardrobe route:list
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := kernel.NewRouter(kernel.Deps{}).Routes()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (default APP_PORT)")
}
