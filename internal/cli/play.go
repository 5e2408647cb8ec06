package cli

import (
	"github.com/spf13/cobra"

	"spriteforge/internal/player"
)

// playOpts holds the command-line flags for the play command.
type playOpts struct {
	frames int // frame count the sheet holds
	fps    int // playback rate
	scale  int // window upscale factor
}

// newPlayCmd creates the play command: a desktop window animating the sheet.
func newPlayCmd() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [sheet.png]",
		Short: "Play the animation in a desktop window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return player.Run(player.Config{
				SheetPath: args[0],
				Frames:    opts.frames,
				FPS:       opts.fps,
				Scale:     opts.scale,
				Title:     "spriteforge - " + args[0],
			})
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "frame count the sheet holds")
	cmd.Flags().IntVar(&opts.fps, "fps", 12, "playback rate")
	cmd.Flags().IntVar(&opts.scale, "scale", 4, "window upscale factor")

	return cmd
}
