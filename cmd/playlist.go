package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"focusloop/internal/core/model"
	"focusloop/internal/core/scene"
	"focusloop/internal/preferences"
	"focusloop/internal/session"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "playlist",
		Short: "Show the configured tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(settings.Playlist) == 0 {
				fmt.Fprintln(out, "Playlist is empty")
				return nil
			}

			rows := make([][]string, 0, len(settings.Playlist))
			for index, track := range settings.Playlist {
				media := scene.ParseMediaURL(track.URL)
				rows = append(rows, []string{
					strconv.Itoa(index),
					track.Title,
					orDash(media.MediaID),
					orDash(media.CollectionID),
					checkpointList(track.Checkpoints),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Title", "Media", "Collection", "Checkpoints"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newScenesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "Show which track each phase and cycle will play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderScenes(settings))
			return nil
		},
	}
}

func renderScenes(settings preferences.Settings) string {
	resolver := scene.NewResolver(preferences.NewStore(settings))

	var rows [][]string
	for _, bucket := range []model.PhaseKind{model.PhaseFocus, model.PhaseShortBreak} {
		for slot := 0; slot < model.CyclesPerSession; slot++ {
			key := scene.KeyFor(bucket, slot)
			resolved, err := resolver.Resolve(key)
			if err != nil {
				rows = append(rows, []string{key.String(), "-", "-", err.Error()})
				continue
			}
			rows = append(rows, []string{
				key.String(),
				resolved.Track.Title,
				orDash(resolved.Checkpoint),
				session.FormatClock(resolved.Offset),
			})
		}
	}
	return renderTable([]string{"Scene", "Track", "Checkpoint", "Start"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
}

func checkpointList(checkpoints []model.Checkpoint) string {
	if len(checkpoints) == 0 {
		return "-"
	}
	var list string
	for index, checkpoint := range checkpoints {
		if index > 0 {
			list += ", "
		}
		list += fmt.Sprintf("%s@%s", checkpoint.Label, checkpoint.Timestamp)
	}
	return list
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
