package main

import (
    "os"

    "github.com/pterm/pterm"
    "github.com/spf13/cobra"
)

func main() {
    if err := newRootCmd().Execute(); err != nil {
        pterm.Error.Println(err)
        os.Exit(1)
    }
}

func newRootCmd() *cobra.Command {
    root := &cobra.Command{
        Use:           "quotectl",
        Short:         "Quote parcel shipping cost for FedEx Ground, Amazon Shipping and Yamato TA-Q-BIN",
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.PersistentFlags().StringP("data", "d", "", "Directory with fedex.yaml, amazon.yaml and yamato.yaml (default: built-in tables)")
    root.AddCommand(newQuoteCmd(), newCarriersCmd(), newTablesCmd())
    return root
}
