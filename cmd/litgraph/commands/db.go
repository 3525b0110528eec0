package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/litgraph/am"
	"github.com/teranos/litgraph/db"
	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/storage"
	"github.com/teranos/litgraph/logger"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the fact database",
	Long: `db: Manage the fact database

Examples:
  litgraph db migrate                    # Apply pending schema migrations
  litgraph db stats                      # Show row counts per table
  litgraph db purge-cache                # Drop every cached result
  litgraph db purge-cache -c PubMed      # Drop cached results of one collection`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display the database path, row counts per table and the size of the loaded ontology",
	RunE:  runDbStats,
}

var dbPurgeCacheCmd = &cobra.Command{
	Use:   "purge-cache",
	Short: "Remove cached query results",
	RunE:  runDbPurgeCache,
}

var purgeCollection string

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbPurgeCacheCmd)
	dbPurgeCacheCmd.Flags().StringVarP(&purgeCollection, "collection", "c", "", "Only purge this collection")
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	versions, err := db.Applied(database)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Database %s is up to date (%d migrations applied)", cfg.GetDatabasePath(), len(versions))
	return nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	stats, err := db.Stats(ctx, database)
	if err != nil {
		return err
	}
	index, err := storage.LoadMeshIndex(ctx, database)
	if err != nil {
		return err
	}

	data := pterm.TableData{{"Table", "Rows"}}
	for _, s := range stats {
		data = append(data, []string{s.Table, fmt.Sprint(s.Rows)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Statistics")
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(out, "Database Path:      %s\n", cfg.GetDatabasePath())
	fmt.Fprintf(out, "Default Collection: %s\n", cfg.GetDefaultCollection())
	fmt.Fprintf(out, "Tree Numbers:       %d\n\n", index.Len())
	fmt.Fprintln(out, table)
	return nil
}

func runDbPurgeCache(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	cache, err := storage.NewSQLResultCache(database, logger.ComponentLogger("cache"))
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Purge(cmd.Context(), purgeCollection)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Removed %d cached results", n)
	return nil
}
