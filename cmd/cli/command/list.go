package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mangabook/pkg/listmap"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your manga list grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		engine := newEngine()
		if err := engine.Load(context.Background()); err != nil {
			return err
		}

		m := engine.Snapshot()
		if m.Len() == 0 {
			fmt.Println("Your list is empty. Add a category with \"mangabook category add\" or import a file.")
			return nil
		}
		printMap(m)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search your list by name or author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		engine := newEngine()
		if err := engine.Load(context.Background()); err != nil {
			return err
		}

		results := engine.Search(args[0])
		if len(results) == 0 {
			fmt.Printf("No entries matching %q\n", args[0])
			return nil
		}
		for _, r := range results {
			fmt.Printf("%-20s  %s (Ch %d)\n", r.CategoryName, r.Entry.Name, r.Entry.Chapter)
		}
		return nil
	},
}

func printMap(m *listmap.Map) {
	for _, category := range m.Categories() {
		fmt.Printf("\n%s (%d)\n", category.Name, len(category.Entries))
		for i, entry := range category.Entries {
			line := fmt.Sprintf("  %2d. %s  Ch %d  [%s]", i+1, entry.Name, entry.Chapter, entry.Status)
			if entry.UserRating != nil {
				line += fmt.Sprintf("  %d/10", *entry.UserRating)
			}
			fmt.Println(line)
			fmt.Printf("      id: %s\n", entry.ID)
		}
	}
	fmt.Printf("\nTotal manga: %d\n", m.TotalEntries())
}

func init() {
	rootCmd.AddCommand(listCmd, searchCmd)
}
