package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("warn", &buf)
	require.NoError(t, err)

	l.Info("dropped")
	l.WithField("order_id", "o-1").Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "o-1", line["order_id"])

	_, err = NewWithWriter("chatty", &buf)
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	fallback := logrus.New()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Same(t, logrus.StandardLogger(), FromContext(context.Background(), nil))

	entry := fallback.WithField("correlation_id", "gen_x")
	ctx := ToContext(context.Background(), entry)
	assert.Same(t, entry, FromContext(ctx, fallback))
}
