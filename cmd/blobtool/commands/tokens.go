package commands

import (
	"fmt"
	"strings"

	"github.com/born-ml/blob/internal/tokens"
	"github.com/spf13/cobra"
)

func newTokensCmd(e *env) *cobra.Command {
	var (
		encoding string
		offset   int
		length   int
	)

	cmd := &cobra.Command{
		Use:   "tokens [text]",
		Short: "Tokenize text into an i32 blob and show a window of it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := tokens.NewEncoder(encoding, e.allocator)
			if err != nil {
				return err
			}

			b, err := enc.Encode(strings.Join(args, " "))
			if err != nil {
				return err
			}
			defer b.Deallocate()

			if length < 0 {
				length = max(0, b.Size()-offset)
			}
			w, err := tokens.Window(b, offset, length)
			if err != nil {
				return err
			}

			ro, err := w.ReadOnly()
			if err != nil {
				return err
			}
			ids := append([]int32(nil), ro.Slice()...)
			ro.Release()

			text, err := enc.Decode(w)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "encoding: %s, %d tokens\n", enc.Name(), b.Size())
			fmt.Fprintf(out, "window:   [%d, %d) %v\n", offset, offset+length, ids)
			fmt.Fprintf(out, "text:     %q\n", text)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&encoding, "encoding", tokens.DefaultEncoding, "tiktoken encoding name")
	f.IntVar(&offset, "offset", 0, "first token of the window")
	f.IntVar(&length, "length", -1, "window length in tokens (default: to the end)")
	return cmd
}
