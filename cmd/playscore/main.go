// Command playscore analyzes a public Spotify playlist from the terminal:
// it fetches the snapshot, prints the quality report and suggests tracks for
// the weak criteria.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/toniu/playscore/internal/adapters/spotify"
	"github.com/toniu/playscore/internal/config"
	"github.com/toniu/playscore/internal/core/domain"
	"github.com/toniu/playscore/internal/core/recommend"
	"github.com/toniu/playscore/internal/core/scoring"
)

func main() {
	app := &cli.App{
		Name:  "playscore",
		Usage: "Score a public Spotify playlist and suggest improvements",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from `FILE` before reading config",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the analysis as JSON instead of text",
			},
			&cli.BoolFlag{
				Name:  "no-recommend",
				Usage: "Skip the candidate fetch and only print the score report",
			},
		},
		ArgsUsage: "PLAYLIST",
		Action:    analyze,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func analyze(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: playscore [flags] PLAYLIST (ID, spotify: URI or share URL)", 2)
	}
	ref := c.Args().First()

	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return cli.Exit("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set", 1)
	}

	scorer, err := scoring.NewEngine(cfg.Scoring.Engine())
	if err != nil {
		return err
	}
	recommender := recommend.NewEngine(cfg.Recommend.Engine(), scorer.Config())

	ctx := c.Context
	catalog := spotify.NewClient(ctx,
		cfg.Spotify.ClientID, cfg.Spotify.ClientSecret,
		cfg.Spotify.TokenURL, cfg.Spotify.BaseURL)

	playlist, err := catalog.GetPlaylist(ctx, ref)
	if err != nil {
		return err
	}

	report, err := scorer.Score(playlist)
	if err != nil {
		return err
	}

	var recs []domain.Recommendation
	if !c.Bool("no-recommend") && len(report.Weaknesses) > 0 {
		candidates, err := catalog.GetCandidates(ctx, playlist, cfg.Recommend.CandidatePoolSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: candidate fetch failed, skipping recommendations: %v\n", err)
		} else {
			recs = recommender.Recommend(report, playlist, candidates)
		}
	}

	if c.Bool("json") {
		return printJSON(playlist, report, recs)
	}
	printText(playlist, report, recs)
	return nil
}

func printJSON(playlist domain.Playlist, report domain.ScoreReport, recs []domain.Recommendation) error {
	payload := struct {
		PlaylistID      string                  `json:"playlist_id"`
		PlaylistName    string                  `json:"playlist_name"`
		PlaylistOwner   string                  `json:"playlist_owner,omitempty"`
		TrackCount      int                     `json:"track_count"`
		Report          domain.ScoreReport      `json:"report"`
		Recommendations []domain.Recommendation `json:"recommendations,omitempty"`
	}{
		PlaylistID:      playlist.ID,
		PlaylistName:    playlist.Name,
		PlaylistOwner:   playlist.Owner,
		TrackCount:      len(playlist.Tracks),
		Report:          report,
		Recommendations: recs,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printText(playlist domain.Playlist, report domain.ScoreReport, recs []domain.Recommendation) {
	fmt.Printf("Playlist: %s", playlist.Name)
	if playlist.Owner != "" {
		fmt.Printf(" (by %s)", playlist.Owner)
	}
	fmt.Printf(" — %d tracks\n", len(playlist.Tracks))
	fmt.Printf("Overall: %.1f / 100\n\n", report.Overall)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, criterion := range domain.Criteria() {
		fmt.Fprintf(tw, "  %s\t%.1f\n", criterion, report.Subscores[criterion])
	}
	_ = tw.Flush()

	if len(report.Weaknesses) == 0 {
		fmt.Println("\nNo weaknesses detected.")
		return
	}

	labels := make([]string, len(report.Weaknesses))
	for i, weakness := range report.Weaknesses {
		labels[i] = string(weakness)
	}
	fmt.Printf("\nWeaknesses (worst first): %s\n", strings.Join(labels, ", "))

	if len(recs) == 0 {
		return
	}
	fmt.Println("\nSuggestions:")
	for _, rec := range recs {
		artist := ""
		if len(rec.Track.ArtistNames) > 0 {
			artist = rec.Track.ArtistNames[0]
		}
		fmt.Printf("  [%s] %s — %s (popularity %d)\n", rec.Reason, rec.Track.Title, artist, rec.Track.Popularity)
	}
}
