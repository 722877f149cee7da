package main

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/pterm/pterm"
    "github.com/spf13/cobra"
    "gopkg.in/yaml.v3"

    "parcelquote/internal/config"
    "parcelquote/internal/db"
    "parcelquote/internal/rate"
    "parcelquote/internal/ratedata"
    "parcelquote/internal/store"
)

func newTablesCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "tables",
        Short: "Manage rate table documents",
    }
    cmd.AddCommand(newTablesPushCmd(), newTablesExportCmd())
    return cmd
}

func newTablesPushCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "push",
        Short: "Store the rate tables in Postgres (uses DATABASE_URL)",
        Long: "Store the rate tables of every carrier in Postgres under their version, " +
            "for services running with RATE_SOURCE=db.",
        RunE: func(cmd *cobra.Command, _ []string) error {
            cfg, err := config.Load()
            if err != nil {
                return err
            }
            tables, err := loadTables(cmd)
            if err != nil {
                return err
            }
            ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
            defer cancel()
            pool, err := db.NewPool(ctx, cfg.DatabaseURL, "parcelquote-cli")
            if err != nil {
                return err
            }
            defer pool.Close()

            st := store.New(pool)
            if err := st.Migrate(ctx); err != nil {
                return err
            }
            if err := st.PutRateTables(ctx, tables); err != nil {
                return err
            }
            for _, c := range rate.Carriers {
                pterm.Success.Printfln("stored %s tables %s", c, tables.Version(c))
            }
            return nil
        },
    }
}

func newTablesExportCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "export",
        Short: "Write the rate tables as YAML documents to a directory",
        RunE: func(cmd *cobra.Command, _ []string) error {
            out, _ := cmd.Flags().GetString("out")
            tables, err := loadTables(cmd)
            if err != nil {
                return err
            }
            if err := os.MkdirAll(out, 0o755); err != nil {
                return err
            }
            docs := map[rate.Carrier]any{
                rate.FedExGround:    tables.FedEx,
                rate.AmazonShipping: tables.Amazon,
                rate.YamatoTaqbin:   tables.Yamato,
            }
            for _, c := range rate.Carriers {
                data, err := yaml.Marshal(docs[c])
                if err != nil {
                    return fmt.Errorf("encode %s tables: %w", c, err)
                }
                path := filepath.Join(out, ratedata.FileName(c))
                if err := os.WriteFile(path, data, 0o644); err != nil {
                    return err
                }
                pterm.Success.Printfln("wrote %s", path)
            }
            return nil
        },
    }
    cmd.Flags().String("out", ".", "Destination directory")
    return cmd
}
