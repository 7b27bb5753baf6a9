package rbtree_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

func TestDump(t *testing.T) {
	t.Parallel()

	set := rbtree.New[int]()
	for _, key := range []int{2, 1, 3} {
		set.Insert(key)
	}

	var buf bytes.Buffer
	require.NoError(t, set.Dump(&buf, nil))

	expected := " └─(R)──── 2 (BLACK)\n" +
		"      ├─(L)──── 1 (RED)\n" +
		"      └─(R)──── 3 (RED)\n"
	assert.Equal(t, expected, buf.String())
}

func TestDumpNested(t *testing.T) {
	t.Parallel()

	set := rbtree.New[int]()
	for _, key := range []int{10, 20, 25, 30, 7, 5, 4, 3, 1} {
		set.Insert(key)
	}

	var buf bytes.Buffer
	require.NoError(t, set.Dump(&buf, func(view rbtree.NodeView[int]) string {
		return fmt.Sprint(view.Key)
	}))

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	require.Len(t, lines, set.Len())
	assert.Equal(t, " └─(R)──── 7", string(lines[0]))
	assert.Contains(t, buf.String(), " │ ")
}

func TestDumpEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, rbtree.New[string]().Dump(&buf, nil))
	assert.Empty(t, buf.String())
}

var errWriteFailed = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

func TestDumpWriteError(t *testing.T) {
	t.Parallel()

	set := rbtree.New[int]()
	set.Insert(1)

	assert.ErrorIs(t, set.Dump(failingWriter{}, nil), errWriteFailed)
}
