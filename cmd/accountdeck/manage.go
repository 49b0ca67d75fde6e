package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/accountdeck/internal/config"
	"github.com/jask/accountdeck/internal/database"
	"github.com/jask/accountdeck/internal/secrets"
	"github.com/jask/accountdeck/internal/service"
	"github.com/jask/accountdeck/internal/testdata"
)

var (
	seedCount int
	resetYes  bool
	keyValue  string
	initForce bool
)

var importCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import accounts from a CSV file with a header row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := requireSQLite(); err != nil {
			return err
		}
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		svc := &service.IngestService{Store: b.store, Log: logger}
		res, err := svc.ImportCSV(ctx, f)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d imported, %d skipped (duplicate uid), %d warnings, %d errors\n",
			res.Imported, res.Skipped, len(res.Warnings), len(res.Errors))
		for _, w := range res.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		for _, e := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty sqlite store with generated demo accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := requireSQLite(); err != nil {
			return err
		}
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		n := seedCount
		if n <= 0 {
			n = cfg.Seed.Count
		}
		if n <= 0 {
			n = testdata.DefaultCount
		}
		written, err := database.SeedIfEmpty(ctx, b.db, testdata.Generate(n, nil, database.Now()))
		if err != nil {
			return err
		}
		if written == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "store is not empty; run `accountdeck reset --yes` first")
			return nil
		}
		logger.Info("store seeded", zap.Int("accounts", written))
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d accounts\n", written)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every account from the sqlite store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("refusing to delete all accounts without --yes")
		}
		ctx := cmd.Context()
		if err := requireSQLite(); err != nil {
			return err
		}
		b, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer b.Close()
		n, err := (&service.MaintenanceService{DB: b.db, Log: logger}).Reset(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d accounts\n", n)
		return nil
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage stored provider API keys",
}

var keySetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key (read from --value or the first line of stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(keyValue)
		if key == "" {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read key from stdin: %w", err)
			}
			key = strings.TrimSpace(line)
		}
		if key == "" {
			return errors.New("empty key")
		}
		store, err := secrets.Default()
		if err != nil {
			return err
		}
		if err := store.Put(args[0], key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", args[0])
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.Default()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted key for %s\n", args[0])
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Path())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings (without API keys) to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s exists; pass --force to overwrite", path)
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 0, "number of accounts (default from config)")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deleting every account")
	keySetCmd.Flags().StringVar(&keyValue, "value", "", "key value (prefer stdin to keep it out of shell history)")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd)
	rootCmd.AddCommand(importCmd, seedCmd, resetCmd, keyCmd, configCmd)
}
