package main

import (
	"fmt"
	"io"
	"strconv"

	"unpolished/internal/config"
	"unpolished/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type opener func() (*gorm.DB, *config.Config, error)

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	var (
		db  *gorm.DB
		cfg *config.Config
	)

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply, revert and inspect schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			db, cfg, err = open()
			return err
		},
	}
	root.SetOut(out)

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending SQL migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := database.NewMigrator(db).Up(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "auto",
		Short: "Sync tables from the models with GORM AutoMigrate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.DBSchemaMode = config.SchemaModeAuto
			if err := database.ApplySchema(cmd.Context(), db, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "models synced")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the schema mode and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "mode=%s env=%s sql=%t auto=%t applied=%d pending=%d\n",
				st.Mode, st.Environment, st.WillRunSQL, st.WillRunAutoMigrate,
				len(st.AppliedVersions), len(st.PendingMigrations))
			for _, m := range st.PendingMigrations {
				fmt.Fprintf(w, "pending %s\n", m)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down <version>",
		Short: "Revert one applied migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			if err := database.RollbackMigration(cmd.Context(), db, version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reverted %06d\n", version)
			return nil
		},
	})

	return root
}
