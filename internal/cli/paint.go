package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randomizedcoder/ringqueue/internal/logctx"
	"github.com/randomizedcoder/ringqueue/internal/term"
)

func newPaintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Fill the terminal with the A-E test pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logctx.From(cmd.Context())
			t, err := term.Open(os.Stdout,
				term.WithGrowthStep(viper.GetInt(FlagGrowthStep)),
				term.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			paint(t, viper.GetBool(FlagColor))
			if err := t.Close(); err != nil {
				return err
			}
			logger.Debug("paint complete", "width", t.Width(), "height", t.Height())
			return nil
		},
	}
	cmd.Flags().Bool(FlagColor, false, "Give each letter its own colour")
	return cmd
}

var letterColors = map[byte]term.Color{
	'A': term.ColorLightRed,
	'B': term.ColorLightGreen,
	'C': term.ColorLightYellow,
	'D': term.ColorLightBlue,
	'E': term.ColorLightMagenta,
}

// paint writes one pattern cell per position, relying on PutChar to wrap
// at the end of each row.
func paint(t *term.Term, color bool) {
	n := 0
	for r := 0; r < t.Height(); r++ {
		for c := 0; c < t.Width(); c++ {
			ch := patternAt(n)
			if color {
				if col, ok := letterColors[ch]; ok {
					t.SetForegroundColor(col)
				}
			}
			t.PutChar(ch)
			n++
		}
	}
	if color {
		t.ClearTextFormatters()
	}
}

// patternAt returns the letter for cell n: the first of 5, 7, 11, 13, 17
// dividing n picks A through E, otherwise a space.
func patternAt(n int) byte {
	switch {
	case n%5 == 0:
		return 'A'
	case n%7 == 0:
		return 'B'
	case n%11 == 0:
		return 'C'
	case n%13 == 0:
		return 'D'
	case n%17 == 0:
		return 'E'
	default:
		return ' '
	}
}
