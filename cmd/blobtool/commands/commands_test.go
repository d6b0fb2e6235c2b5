package commands

import (
	"bytes"
	"testing"

	"github.com/born-ml/blob/internal/alloc"
	"github.com/born-ml/blob/internal/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blobtool "+version+"\n", out)
}

func TestPrecisions(t *testing.T) {
	out, err := run(t, "precisions")
	require.NoError(t, err)
	assert.Contains(t, out, "PRECISION")
	for _, p := range blob.Precisions() {
		assert.Contains(t, out, p.String())
	}
}

func TestViewSameType(t *testing.T) {
	out, err := run(t, "view", "--from", "u8", "--values", "10,20,30", "--as", "u8", "--offset", "1", "--length", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "source: u8[3] C (3 bytes)")
	assert.Contains(t, out, "at byte 1 (2 bytes)")
	assert.Contains(t, out, "[0] 20\n")
	assert.Contains(t, out, "[1] 30\n")
	assert.NotContains(t, out, "[2]")
}

func TestViewDefaultLength(t *testing.T) {
	out, err := run(t, "view", "--from", "i32", "--values", "1,2,3,4", "--as", "i32", "--offset", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "[0] 3\n")
	assert.Contains(t, out, "[1] 4\n")
}

func TestViewReinterpret(t *testing.T) {
	// 0x3f800000 is the IEEE 754 encoding of 1.0.
	out, err := run(t, "view", "--from", "u32", "--values", "0x3f800000", "--as", "fp32", "--trace", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "[0] 1\n")
}

func TestViewOutOfRange(t *testing.T) {
	_, err := run(t, "view", "--from", "u8", "--values", "1,2,3", "--as", "i16", "--offset", "1", "--length", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, blob.ErrOutOfRange)
}

func TestViewBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown source precision", []string{"view", "--from", "f128", "--values", "1"}},
		{"unknown proxy precision", []string{"view", "--values", "1", "--as", "f128"}},
		{"unparsable value", []string{"view", "--from", "i8", "--values", "1,x"}},
		{"value overflow", []string{"view", "--from", "u8", "--values", "300"}},
		{"unknown allocator", []string{"view", "--values", "1", "--allocator", "bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSplitValues(t *testing.T) {
	assert.Nil(t, splitValues(""))
	assert.Nil(t, splitValues("  "))
	assert.Equal(t, []string{"1", "2", "3"}, splitValues("1, 2 ,3"))
}

var _ interface{ Release() } = (*alloc.WebGPU)(nil)

func TestEnvCloseReleasesOnce(t *testing.T) {
	calls := 0
	e := &env{release: func() { calls++ }}

	e.close()
	e.close()
	assert.Equal(t, 1, calls)
}

func TestSetupReleasesAfterRun(t *testing.T) {
	t.Chdir(t.TempDir())

	root, e := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.NotNil(t, e.allocator)
	assert.Nil(t, e.release, "heap allocator holds no device resources")
}
