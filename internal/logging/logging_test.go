package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("toast inserted", "id", "tx-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "toast inserted", line["msg"])
	require.Equal(t, "tx-1", line["id"])
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestEnsure(t *testing.T) {
	require.NotNil(t, Ensure(nil))
	Ensure(nil).Error("discarded")
}
