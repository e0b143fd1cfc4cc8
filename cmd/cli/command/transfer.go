package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mangabook/internal/sync"
	"mangabook/internal/transfer"
	"mangabook/pkg/listmap"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace your list with the contents of a TXT, JSON or PDF file",
	Long: `Import reads a previously exported list file and replaces your entire
server-side list with its contents. The format is picked by file extension
(.txt, .json, .pdf).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		path := args[0]

		var (
			imported *listmap.Map
			warnings []string
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			imported, warnings = transfer.ParseText(string(data))
		case ".pdf":
			text, err := transfer.ExtractPDFText(path)
			if err != nil {
				return err
			}
			imported, warnings = transfer.ParseText(text)
		case ".json":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if imported, err = transfer.ParseJSON(data); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
		default:
			return fmt.Errorf("unsupported file extension %q, expected .txt, .json or .pdf", filepath.Ext(path))
		}

		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		if imported.Len() == 0 {
			return fmt.Errorf("%s contains no categories, refusing to replace your list", path)
		}

		return withEngine(func(engine *sync.Engine) error {
			if err := engine.ImportReplace(imported); err != nil {
				return err
			}
			fmt.Printf("Imported %d categories with %d manga\n", imported.Len(), imported.TotalEntries())
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export your list to a TXT, JSON or PDF file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		engine := newEngine()
		if err := engine.Load(context.Background()); err != nil {
			return err
		}
		m := engine.Snapshot()

		path := args[0]
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt":
			if err := os.WriteFile(path, []byte(transfer.ExportTXT(m)), 0o644); err != nil {
				return err
			}
		case ".json":
			data, err := transfer.ExportJSON(m)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
		case ".pdf":
			if err := transfer.ExportPDF(m, path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported file extension %q, expected .txt, .json or .pdf", filepath.Ext(path))
		}

		fmt.Printf("Exported %d categories with %d manga to %s\n", m.Len(), m.TotalEntries(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}
