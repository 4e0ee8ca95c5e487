package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/iplay/internal/domain"
	"github.com/spf13/cobra"
)

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List the active site's albums",
	Args:  cobra.NoArgs,
	RunE:  runAlbums,
}

var albumCmd = &cobra.Command{
	Use:   "album <album-id>",
	Short: "List every item in an album",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlbum,
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the newest items of every album",
	Args:  cobra.NoArgs,
	RunE:  runLatest,
}

var actorCmd = &cobra.Command{
	Use:   "actor <actor-id>",
	Short: "Show an actor",
	Args:  cobra.ExactArgs(1),
	RunE:  runActor,
}

var worksCmd = &cobra.Command{
	Use:   "works <actor-id>",
	Short: "List the movies and series an actor appears in",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorks,
}

var playbackCmd = &cobra.Command{
	Use:   "playback <item-id>",
	Short: "Show playback sources for an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayback,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search latest media and loaded albums",
	Long: `Fuzzy search item names. Latest media of every album is always
searched; pass --album to load full albums into the index too.

Examples:
  iplay search matrix
  iplay search "blade run" --album 2a3f --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(albumsCmd, albumCmd, latestCmd, actorCmd, worksCmd, playbackCmd, searchCmd)

	searchCmd.Flags().StringSlice("album", nil, "Album ids to load before searching")
	searchCmd.Flags().Int("limit", 20, "Maximum results (0 for all)")
}

func runAlbums(cmd *cobra.Command, args []string) error {
	albums, err := current.engine.FetchAlbums(cmd.Context())
	if err != nil {
		return userError(err)
	}
	if jsonOutput {
		return printJSON(albums)
	}
	for _, a := range albums {
		fmt.Printf("%-34s  %-8s  %s\n", a.ID, a.ItemType(), a.Name)
	}
	return nil
}

func runAlbum(cmd *cobra.Command, args []string) error {
	media, err := current.engine.FetchAlbumMedia(cmd.Context(), args[0])
	if err != nil {
		return userError(err)
	}
	if jsonOutput {
		return printJSON(media)
	}
	printItems(media.Items)
	fmt.Printf("\n%d items\n", len(media.Items))
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	albums, err := current.engine.FetchAlbums(cmd.Context())
	if err != nil {
		return userError(err)
	}
	latest, err := current.engine.FetchLatestMedia(cmd.Context())
	if err != nil {
		return userError(err)
	}
	if jsonOutput {
		return printJSON(latest)
	}
	for i, album := range albums {
		fmt.Printf("\n%s\n%s\n", album.Name, strings.Repeat("─", len(album.Name)))
		if i >= len(latest) || latest[i] == nil {
			fmt.Println("  (unavailable)")
			continue
		}
		printItems(latest[i])
	}
	return nil
}

func runActor(cmd *cobra.Command, args []string) error {
	actor, err := current.engine.FetchActor(cmd.Context(), args[0])
	if err != nil {
		return userError(err)
	}
	if jsonOutput {
		return printJSON(actor)
	}
	fmt.Printf("%s (%s)\n", orDash(actor.Name), actor.ID)
	if actor.AvatarURL != "" {
		fmt.Printf("Avatar: %s\n", actor.AvatarURL)
	}
	if actor.Overview != "" {
		fmt.Printf("\n%s\n", actor.Overview)
	}
	return nil
}

func runWorks(cmd *cobra.Command, args []string) error {
	items, err := current.engine.FetchActorWorks(cmd.Context(), args[0])
	if err != nil {
		return userError(err)
	}
	if jsonOutput {
		return printJSON(items)
	}
	printItems(items)
	return nil
}

func runPlayback(cmd *cobra.Command, args []string) error {
	info, err := current.engine.FetchPlaybackInfo(cmd.Context(), args[0])
	if err != nil {
		return userError(err)
	}
	if jsonOutput {
		return printJSON(info)
	}
	fmt.Printf("Play session: %s\n", orDash(info.PlaySessionID))
	for _, src := range info.MediaSources {
		mode := "transcode"
		switch {
		case src.SupportsDirectPlay:
			mode = "direct play"
		case src.SupportsDirectStream:
			mode = "direct stream"
		}
		fmt.Printf("  %s  %-5s  %-13s  %d kbps\n", src.ID, src.Container, mode, src.Bitrate/1000)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	albumIDs, _ := cmd.Flags().GetStringSlice("album")
	limit, _ := cmd.Flags().GetInt("limit")

	if _, err := current.engine.FetchAlbums(cmd.Context()); err != nil {
		return userError(err)
	}
	if _, err := current.engine.FetchLatestMedia(cmd.Context()); err != nil {
		return userError(err)
	}
	for _, id := range albumIDs {
		if _, err := current.engine.FetchAlbumMedia(cmd.Context(), id); err != nil {
			return userError(err)
		}
	}

	results := current.engine.Search(query, limit)
	if jsonOutput {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Printf("No matches for %q\n", query)
		return nil
	}
	for _, r := range results {
		fmt.Printf("%-34s  %-7s  %s\n", r.Item.ID, r.Item.Type, r.Item.Name)
	}
	return nil
}

func printItems(items []domain.MediaItem) {
	for _, item := range items {
		year := ""
		if item.ProductionYear > 0 {
			year = fmt.Sprintf(" (%d)", item.ProductionYear)
		}
		fmt.Printf("  %-34s  %-7s  %s%s\n", item.ID, item.Type, item.Name, year)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// userError logs the full error and returns the display message
func userError(err error) error {
	current.logger.Error("command failed", "error", err)
	return errors.New(domain.UserMessage(err))
}
