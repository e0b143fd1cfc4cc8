package command

import (
	"context"

	"github.com/spf13/cobra"

	"mangabook/internal/sync"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage list categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *sync.Engine) error {
			return engine.AddCategory(args[0])
		})
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a category, keeping its entries and position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *sync.Engine) error {
			return engine.RenameCategory(args[0], args[1])
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a category and all its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *sync.Engine) error {
			return engine.DeleteCategory(args[0])
		})
	},
}

var categoryUpCmd = &cobra.Command{
	Use:   "up <name>",
	Short: "Move a category one position up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *sync.Engine) error {
			return engine.MoveCategoryUp(args[0])
		})
	},
}

var categoryDownCmd = &cobra.Command{
	Use:   "down <name>",
	Short: "Move a category one position down",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *sync.Engine) error {
			return engine.MoveCategoryDown(args[0])
		})
	},
}

// withEngine loads the remote list, applies a single mutation through the
// engine and waits for the background save to finish before returning.
func withEngine(fn func(engine *sync.Engine) error) error {
	if err := requireToken(); err != nil {
		return err
	}
	engine := newEngine()
	if err := engine.Load(context.Background()); err != nil {
		return err
	}
	if err := fn(engine); err != nil {
		return err
	}
	engine.Wait()
	return nil
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryRenameCmd, categoryDeleteCmd, categoryUpCmd, categoryDownCmd)
	rootCmd.AddCommand(categoryCmd)
}
