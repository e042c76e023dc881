package std_test

import (
	"bytes"
	"testing"

	"github.com/pwnedgod/codecable/logger/std"
	"github.com/stretchr/testify/assert"
)

func TestWriterLogger(t *testing.T) {
	var out, errOut bytes.Buffer

	l := std.NewWriterLogger(&out, &errOut, false)
	l.Info("stored", "key", 1)
	l.Debug("dropped")
	l.Error("failed", "key")

	assert.Equal(t, "INFO stored key 1\n", out.String())
	assert.Equal(t, "ERROR failed key\n", errOut.String())

	out.Reset()
	std.NewWriterLogger(&out, &errOut, true).Debug("kept")
	assert.Equal(t, "DEBUG kept\n", out.String())
}
