package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"spriteforge/pkg/sheet"
	"spriteforge/pkg/sprite"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	frames  int    // frame count the sheet was assembled with
	contact string // optional contact sheet destination
	cols    int    // contact sheet columns
}

// newInspectCmd creates the inspect command for reporting sheet geometry.
func newInspectCmd() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [sheet.png]",
		Short: "Report the geometry of an existing sprite sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "frame count the sheet holds")
	cmd.Flags().StringVar(&opts.contact, "contact", "", "write a labeled contact sheet to this path")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "contact sheet columns (0 = single row)")

	return cmd
}

// runInspect prints the sheet geometry and optionally writes a contact sheet.
func runInspect(ctx context.Context, path string, opts *inspectOpts) error {
	logger := loggerFromContext(ctx)

	info, err := sheet.Inspect(path, opts.frames)
	if err != nil {
		return err
	}

	printKeyValue("Sheet", info.Path)
	printKeyValue("Size", fmt.Sprintf("%dx%d", info.Width, info.Height))
	printKeyValue("Frames", fmt.Sprintf("%d", info.Frames))
	printKeyValue("Frame size", fmt.Sprintf("%dx%d", info.FrameWidth, info.FrameHeight))

	if opts.contact == "" {
		return nil
	}

	frames, err := sheet.Load(path, opts.frames)
	if err != nil {
		return err
	}
	grid, err := sheet.ContactSheet(frames, opts.cols)
	if err != nil {
		return err
	}
	if err := sprite.WriteSheet(grid, opts.contact); err != nil {
		return err
	}
	logger.Debugf("Contact sheet written to %s", opts.contact)
	printFile(opts.contact)
	return nil
}
