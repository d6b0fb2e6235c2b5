package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/born-ml/blob/internal/blob"
	"github.com/spf13/cobra"
)

type viewOptions struct {
	from   string
	as     string
	values string
	offset int
	length int
}

func newViewCmd(e *env) *cobra.Command {
	opts := &viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Fill a blob and read it back through a proxy of another type",
		Long: `view builds a blob of --from elements holding --values, then reads
--length elements of type --as starting --offset source elements in.

Example:
  blobtool view --from u8 --values 5,6,7,8,9,10,11,12 --as i16 --offset 2 --length 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.OutOrStdout(), e.allocator, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "u8", "source precision")
	f.StringVar(&opts.as, "as", "u8", "proxy precision")
	f.StringVar(&opts.values, "values", "", "comma-separated source values")
	f.IntVar(&opts.offset, "offset", 0, "proxy offset in source elements")
	f.IntVar(&opts.length, "length", -1, "proxy length in proxy elements (default: as many as fit)")
	return cmd
}

func runView(w io.Writer, a alloc.Allocator, opts *viewOptions) error {
	from, err := blob.ParsePrecision(opts.from)
	if err != nil {
		return err
	}
	as, err := blob.ParsePrecision(opts.as)
	if err != nil {
		return err
	}

	src, err := newFilledBlob(from, splitValues(opts.values), a)
	if err != nil {
		return err
	}
	defer src.Deallocate()

	length := opts.length
	if length < 0 {
		length = max(0, (src.ByteSize()-opts.offset*src.ElementSize())/as.Size())
	}

	fmt.Fprintf(w, "source: %s (%d bytes)\n", src.Desc(), src.ByteSize())
	return printProxy(w, as, src, opts.offset, length)
}

func splitValues(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// newFilledBlob dispatches on p to build and fill a blob of the matching Go type.
func newFilledBlob(p blob.Precision, values []string, a alloc.Allocator) (blob.Blob, error) {
	switch p {
	case blob.FP32:
		return fillBlob(p, values, a, parseFloat[float32](32))
	case blob.FP64:
		return fillBlob(p, values, a, parseFloat[float64](64))
	case blob.I8:
		return fillBlob(p, values, a, parseInt[int8](8))
	case blob.I16:
		return fillBlob(p, values, a, parseInt[int16](16))
	case blob.I32:
		return fillBlob(p, values, a, parseInt[int32](32))
	case blob.I64:
		return fillBlob(p, values, a, parseInt[int64](64))
	case blob.U8, blob.BOOL:
		return fillBlob(p, values, a, parseUint[uint8](8))
	case blob.U16, blob.FP16, blob.BF16:
		return fillBlob(p, values, a, parseUint[uint16](16))
	case blob.U32:
		return fillBlob(p, values, a, parseUint[uint32](32))
	case blob.U64:
		return fillBlob(p, values, a, parseUint[uint64](64))
	default:
		return nil, fmt.Errorf("unsupported precision %s", p)
	}
}

func fillBlob[T blob.Element](p blob.Precision, values []string, a alloc.Allocator, parse func(string) (T, error)) (blob.Blob, error) {
	b, err := blob.NewTBlob[T](blob.NewTensorDesc(p, blob.Shape{len(values)}, blob.C), a)
	if err != nil {
		return nil, err
	}
	if err := b.Allocate(); err != nil {
		return nil, err
	}

	elems, err := b.Elements()
	if err != nil {
		b.Deallocate()
		return nil, err
	}
	for i, ptr := range elems {
		v, perr := parse(values[i])
		if perr != nil {
			err = fmt.Errorf("value %d: %w", i, perr)
			break
		}
		*ptr = v
	}
	if err != nil {
		b.Deallocate()
		return nil, err
	}
	return b, nil
}

func parseFloat[T ~float32 | ~float64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
}

func parseInt[T ~int8 | ~int16 | ~int32 | ~int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 0, bits)
		return T(v), err
	}
}

func parseUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 0, bits)
		return T(v), err
	}
}

// printProxy dispatches on p to build a proxy of the matching Go type.
func printProxy(w io.Writer, p blob.Precision, src blob.Blob, offset, length int) error {
	switch p {
	case blob.FP32:
		return printTyped[float32](w, p, src, offset, length)
	case blob.FP64:
		return printTyped[float64](w, p, src, offset, length)
	case blob.I8:
		return printTyped[int8](w, p, src, offset, length)
	case blob.I16:
		return printTyped[int16](w, p, src, offset, length)
	case blob.I32:
		return printTyped[int32](w, p, src, offset, length)
	case blob.I64:
		return printTyped[int64](w, p, src, offset, length)
	case blob.U8, blob.BOOL:
		return printTyped[uint8](w, p, src, offset, length)
	case blob.U16, blob.FP16, blob.BF16:
		return printTyped[uint16](w, p, src, offset, length)
	case blob.U32:
		return printTyped[uint32](w, p, src, offset, length)
	case blob.U64:
		return printTyped[uint64](w, p, src, offset, length)
	default:
		return fmt.Errorf("unsupported precision %s", p)
	}
}

func printTyped[T blob.Element](w io.Writer, p blob.Precision, src blob.Blob, offset, length int) error {
	proxy, err := blob.NewProxy[T](p, blob.C, src, offset, blob.Shape{length})
	if err != nil {
		return err
	}
	seq, err := proxy.Values()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "proxy:  %s at byte %d (%d bytes)\n", proxy.Desc(), proxy.OffsetBytes(), proxy.ByteSize())
	i := 0
	for v := range seq {
		fmt.Fprintf(w, "  [%d] %v\n", i, v)
		i++
	}
	return nil
}
