package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/leadimport"
)

var importUpdate bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import leads from an .xlsx or .csv export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importUpdate, "update", false,
		"If a lead exists (same company or email), update it with non-empty values from the file")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := leadimport.ReadTable(f, path)
	if err != nil {
		return err
	}

	db, _, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := leadimport.Reconcile(cmd.Context(), rows, db, leadimport.Options{Update: importUpdate})
	if err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}
