package cli

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	"spriteforge/pkg/sheet"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	frames int // frame count the sheet holds
	fps    int // playback rate
}

// newPreviewCmd creates the preview command: an interactive terminal
// animation of the sheet, rendered as half-block ANSI art.
func newPreviewCmd() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [sheet.png]",
		Short: "Preview the animation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := sheet.Load(args[0], opts.frames)
			if err != nil {
				return err
			}
			model := newPreviewModel(frames, opts.fps)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 1, "frame count the sheet holds")
	cmd.Flags().IntVar(&opts.fps, "fps", 12, "playback rate")

	return cmd
}

// =============================================================================
// previewModel - terminal animation playback
// =============================================================================

// tickMsg advances the animation by one frame.
type tickMsg time.Time

// previewModel is the bubbletea model for frame playback.
type previewModel struct {
	frames  []*image.NRGBA
	idx     int
	playing bool
	fps     int
	width   int
	height  int
}

func newPreviewModel(frames []*image.NRGBA, fps int) previewModel {
	if fps < 1 {
		fps = 1
	}
	return previewModel{
		frames:  frames,
		playing: true,
		fps:     fps,
		width:   80,
		height:  24,
	}
}

func (m previewModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m previewModel) Init() tea.Cmd {
	return m.tick()
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.playing = false
			m.idx = (m.idx + len(m.frames) - 1) % len(m.frames)
		case "right", "l":
			m.playing = false
			m.idx = (m.idx + 1) % len(m.frames)
		case " ":
			m.playing = !m.playing
			if m.playing {
				return m, m.tick()
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if !m.playing {
			return m, nil
		}
		m.idx = (m.idx + 1) % len(m.frames)
		return m, m.tick()
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Animation Preview"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("frame %d/%d", m.idx+1, len(m.frames))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  space play/pause  q quit"))
	b.WriteString("\n\n")

	artH := m.height - 5
	if artH < 2 {
		artH = 2
	}
	b.WriteString(ansiArt(m.frames[m.idx], m.width, artH))
	return b.String()
}

// ansiArt renders img as half-block characters: each terminal cell covers
// one pixel column and two pixel rows, the upper pixel as the foreground of
// "▀" and the lower as the background. The frame is downscaled with
// nearest-neighbor to keep pixel-art edges crisp.
func ansiArt(img *image.NRGBA, maxCols, maxRows int) string {
	w, h := fitCells(img.Rect.Dx(), img.Rect.Dy(), maxCols, maxRows)
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h*2))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := scaled.NRGBAAt(x, y*2)
			bottom := scaled.NRGBAAt(x, y*2+1)
			switch {
			case top.A < 128 && bottom.A < 128:
				b.WriteByte(' ')
			case top.A < 128:
				b.WriteString(lipgloss.NewStyle().Foreground(hexColor(bottom.R, bottom.G, bottom.B)).Render("▄"))
			case bottom.A < 128:
				b.WriteString(lipgloss.NewStyle().Foreground(hexColor(top.R, top.G, top.B)).Render("▀"))
			default:
				b.WriteString(lipgloss.NewStyle().
					Foreground(hexColor(top.R, top.G, top.B)).
					Background(hexColor(bottom.R, bottom.G, bottom.B)).
					Render("▀"))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// fitCells scales a pixel size to fit a terminal cell box, preserving aspect
// ratio. Cells are one pixel wide and two pixels tall.
func fitCells(pw, ph, maxCols, maxRows int) (int, int) {
	w, h := pw, (ph+1)/2
	if w > maxCols {
		h = h * maxCols / w
		w = maxCols
	}
	if h > maxRows {
		w = w * maxRows / h
		h = maxRows
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// hexColor converts RGB bytes to a lipgloss truecolor value.
func hexColor(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
