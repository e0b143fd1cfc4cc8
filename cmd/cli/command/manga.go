package command

import (
	"github.com/spf13/cobra"

	"mangabook/internal/sync"
	"mangabook/pkg/listmap"
)

var mangaCmd = &cobra.Command{
	Use:   "manga",
	Short: "Manage manga entries",
}

var (
	mangaChapter int
	mangaImage   string
	mangaAuthor  string
	mangaStatus  string
	mangaRating  int
	mangaNotes   string
)

var mangaAddCmd = &cobra.Command{
	Use:   "add <category> <name>",
	Short: "Add a manga to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := listmap.NewEntry(args[1])
		entry.Chapter = mangaChapter
		if mangaImage != "" {
			entry.ImageURL = mangaImage
		}
		entry.Author = mangaAuthor
		if mangaStatus != "" {
			entry.Status = mangaStatus
		}
		if cmd.Flags().Changed("rating") {
			entry.UserRating = &mangaRating
		}
		entry.UserNotes = mangaNotes
		if err := entry.Validate(); err != nil {
			return err
		}
		return withEngine(func(engine *sync.Engine) error {
			return engine.AddEntry(args[0], entry)
		})
	},
}

var mangaUpdateCmd = &cobra.Command{
	Use:   "update <category> <manga-id>",
	Short: "Update fields of a manga entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch listmap.EntryPatch
		if cmd.Flags().Changed("chapter") {
			patch.Chapter = &mangaChapter
		}
		if cmd.Flags().Changed("image") {
			patch.ImageURL = &mangaImage
		}
		if cmd.Flags().Changed("author") {
			patch.Author = &mangaAuthor
		}
		if cmd.Flags().Changed("status") {
			patch.Status = &mangaStatus
		}
		if cmd.Flags().Changed("rating") {
			patch.UserRating = &mangaRating
		}
		if cmd.Flags().Changed("notes") {
			patch.UserNotes = &mangaNotes
		}
		return withEngine(func(engine *sync.Engine) error {
			return engine.UpdateEntry(args[0], args[1], patch)
		})
	},
}

var mangaDeleteCmd = &cobra.Command{
	Use:   "delete <category> <manga-id>",
	Short: "Remove a manga entry from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *sync.Engine) error {
			return engine.DeleteEntry(args[0], args[1])
		})
	},
}

func addEntryFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&mangaChapter, "chapter", 0, "current chapter")
	cmd.Flags().StringVar(&mangaImage, "image", "", "cover image URL")
	cmd.Flags().StringVar(&mangaAuthor, "author", "", "author name")
	cmd.Flags().StringVar(&mangaStatus, "status", "", "reading status (plan-to-read, reading, completed, dropped, on-hold)")
	cmd.Flags().IntVar(&mangaRating, "rating", 0, "personal rating from 1 to 10")
	cmd.Flags().StringVar(&mangaNotes, "notes", "", "personal notes")
}

func init() {
	addEntryFlags(mangaAddCmd)
	addEntryFlags(mangaUpdateCmd)
	mangaCmd.AddCommand(mangaAddCmd, mangaUpdateCmd, mangaDeleteCmd)
	rootCmd.AddCommand(mangaCmd)
}
