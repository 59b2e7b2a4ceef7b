package observability_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shopbot"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/observability"
	"github.com/aretw0/shopbot/pkg/ports"
)

var discard = ports.SenderFunc(func(context.Context, string, ...domain.ActionRequest) error { return nil })

func converse(t *testing.T, b *shopbot.Bot, texts ...string) {
	t.Helper()
	for _, text := range texts {
		require.NoError(t, b.HandleActivity(context.Background(), domain.Message("c1", "u1", text), discard))
	}
}

func TestMetrics_Conversation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	b := shopbot.New(shopbot.WithLifecycleHooks(m.Hooks()))
	converse(t, b, "hi", "It is Sam", "yes", "Footwear", "Loafers", "Central")

	assert.Equal(t, 6.0, testutil.ToFloat64(m.Turns.WithLabelValues("message")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlowsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlowsEnded.WithLabelValues(string(domain.EndCompleted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Steps.WithLabelValues(string(domain.StepFinalize))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Reprompts.WithLabelValues(string(domain.StepProductChoice))))
}

func TestMetrics_Reprompt(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	b := shopbot.New(shopbot.WithLifecycleHooks(m.Hooks()))
	converse(t, b, "hi", "It is Sam", "maybe")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reprompts.WithLabelValues(string(domain.StepOfferHelp))))
}

func TestMetrics_ActivityTypesAreBounded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	b := shopbot.New(shopbot.WithLifecycleHooks(m.Hooks()))
	ctx := context.Background()
	for i := range 200 {
		act := domain.Activity{
			Type:         domain.ActivityType(fmt.Sprintf("junk-%d", i)),
			Conversation: domain.ConversationRef{ID: "c1"},
		}
		require.NoError(t, b.HandleActivity(ctx, act, discard))
	}
	converse(t, b, "hi")

	assert.Equal(t, 2, testutil.CollectAndCount(m.Turns))
	assert.Equal(t, 200.0, testutil.ToFloat64(m.Turns.WithLabelValues("other")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("message")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m.FlowsStarted.Inc()

	rec := httptest.NewRecorder()
	observability.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "shopbot_flows_started_total 1")
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := shopbot.New(shopbot.WithLifecycleHooks(observability.LoggingHooks(logger)))
	converse(t, b, "hi", "Sam")

	out := buf.String()
	assert.Contains(t, out, "Flow Start")
	assert.Contains(t, out, "step=ask_name")
	assert.Contains(t, out, "reason=unparsed_name")
}
