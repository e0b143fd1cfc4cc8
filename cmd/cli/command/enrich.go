package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mangabook/internal/enrichment"
)

var jikanURL string

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch missing cover art from the Jikan catalog",
	Long: `Enrich looks up every manga that still shows the placeholder cover and
fetches real cover art by title from the Jikan catalog. Lookups that find
no match leave the placeholder in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		engine := newEngine()
		if err := engine.Load(context.Background()); err != nil {
			return err
		}

		enricher := enrichment.NewEnricher(enrichment.NewClient(jikanURL), nil)
		covers, err := enricher.Enrich(context.Background(), engine.Snapshot(), func(done, total int) {
			fmt.Printf("Looked up %d/%d covers\n", done, total)
		})
		if err != nil {
			return err
		}
		if len(covers) == 0 {
			fmt.Println("No covers found, nothing to update.")
			return nil
		}

		if err := engine.ApplyCovers(covers); err != nil {
			return err
		}
		engine.Wait()
		fmt.Printf("Updated %d covers\n", len(covers))
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <title>",
	Short: "Look up a manga in the Jikan catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		client := enrichment.NewClient(jikanURL)

		manga, err := client.Search(context.Background(), title)
		if errors.Is(err, enrichment.ErrNoMatch) {
			fmt.Printf("No catalog match for %q\n", title)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Title:   %s (MAL #%d)\n", manga.Title, manga.MalID)
		if len(manga.Authors) > 0 {
			fmt.Printf("Authors: %s\n", strings.Join(manga.Authors, ", "))
		}
		if manga.Status != "" {
			fmt.Printf("Status:  %s\n", manga.Status)
		}
		if manga.Score > 0 {
			fmt.Printf("Score:   %.2f\n", manga.Score)
		}
		if manga.ImageURL != "" {
			fmt.Printf("Cover:   %s\n", manga.ImageURL)
		}
		if manga.Synopsis != "" {
			fmt.Printf("\n%s\n", manga.Synopsis)
		}
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&jikanURL, "jikan", "", "Jikan API base URL (default public API)")
	infoCmd.Flags().StringVar(&jikanURL, "jikan", "", "Jikan API base URL (default public API)")
	rootCmd.AddCommand(enrichCmd, infoCmd)
}
