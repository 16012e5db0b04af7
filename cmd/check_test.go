package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSrc(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.imp")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	f()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestRunCheckOKExitsZero(t *testing.T) {
	path := writeSrc(t, `assume 0 <= a && a <= 10;
b := a + 1;
assert b <= 11;`)
	out := captureStdout(t, func() {
		code := runCheck(path, false, true)
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "OK")
}

func TestRunCheckFailExitsTwo(t *testing.T) {
	path := writeSrc(t, `assume a == 5;
assert a == 6;`)
	out := captureStdout(t, func() {
		code := runCheck(path, false, true)
		assert.Equal(t, 2, code)
	})
	assert.Contains(t, out, "FAIL")
}

func TestRunCheckParseErrorExitsOne(t *testing.T) {
	path := writeSrc(t, `assume ;;; broken`)
	code := runCheck(path, false, true)
	assert.Equal(t, 1, code)
}

func TestRunCheckMissingFileExitsOne(t *testing.T) {
	code := runCheck(filepath.Join(t.TempDir(), "nope.imp"), false, true)
	assert.Equal(t, 1, code)
}

func TestRunCheckJSONOutput(t *testing.T) {
	path := writeSrc(t, `assume 0 <= a && a <= 10;
assert a == 3;`)
	out := captureStdout(t, func() {
		code := runCheck(path, true, true)
		assert.Equal(t, 2, code)
	})
	assert.Contains(t, out, `"kind"`)
}
