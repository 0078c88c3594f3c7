package plugin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"katydid-common-param/pkg/validator/annotation"
	"katydid-common-param/pkg/validator/core"
	"katydid-common-param/pkg/validator/interceptor"
	"katydid-common-param/pkg/validator/plugin"
	"katydid-common-param/pkg/validator/registry"
)

type mailer struct{}

func (m *mailer) Send(args ...any) (any, error) {
	if args[0] == "bounce" {
		return nil, errors.New("mailbox unavailable")
	}
	return "sent", nil
}

var sendKey = core.KeyFor[mailer]("Send")

func newSend(t *testing.T, p *plugin.LoggingPlugin) core.MethodFunc {
	t.Helper()
	reg := registry.New()
	require.NoError(t, annotation.Required(reg, sendKey, 0))
	return interceptor.New(reg, interceptor.WithHooks(p)).Validate(sendKey, (&mailer{}).Send)
}

func TestLoggingPlugin(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	p := plugin.NewLoggingPlugin(zap.New(obsCore))
	send := newSend(t, p)

	_, err := send("to@example.com")
	require.NoError(t, err)
	_, err = send()
	require.Error(t, err)
	_, err = send("bounce")
	require.Error(t, err)

	assert.Equal(t, 3, logs.FilterMessage("method call started").Len())

	succeeded := logs.FilterMessage("method call succeeded").All()
	require.Len(t, succeeded, 1)
	assert.Equal(t, "plugin_test.mailer.Send", succeeded[0].ContextMap()["method"])

	rejected := logs.FilterMessage("method call rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)

	failed := logs.FilterMessage("method call failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "mailbox unavailable", failed[0].ContextMap()["error"])

	started := logs.FilterMessage("method call started").All()
	assert.Equal(t, started[0].ContextMap()["call_id"], succeeded[0].ContextMap()["call_id"], "开始与结束日志使用同一个调用 ID")
	assert.NotEqual(t, started[0].ContextMap()["call_id"], started[1].ContextMap()["call_id"])
}

func TestLoggingPlugin_Init(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	p := plugin.NewLoggingPlugin(zap.New(obsCore))
	assert.Equal(t, "LoggingPlugin", p.Name())
	assert.True(t, p.Enabled())

	require.NoError(t, p.Init(nil))
	assert.True(t, errors.Is(p.Init(map[string]any{"node_id": -1}), plugin.ErrInvalidNodeID))
	require.NoError(t, p.Init(map[string]any{"enabled": false, "node_id": 3}))
	assert.False(t, p.Enabled())

	result, err := newSend(t, p)("to@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sent", result)
	assert.Zero(t, logs.Len())
}

func TestLoggingPlugin_NilLogger(t *testing.T) {
	result, err := newSend(t, plugin.NewLoggingPlugin(nil))("to@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sent", result)
}
