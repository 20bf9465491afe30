package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingScript(name string, ran *[]string, tags ...string) Script {
	return Script{
		Name: name,
		Tags: tags,
		Run: func(ctx context.Context, env *Env) error {
			*ran = append(*ran, name)
			return nil
		},
	}
}

func newTestRunner(t *testing.T, scripts ...Script) *Runner {
	t.Helper()
	r := NewRunner(zerolog.Nop())
	require.NoError(t, r.Register(scripts...))
	return r
}

func TestRunnerRunsAllInRegistrationOrder(t *testing.T) {
	var ran []string
	r := newTestRunner(t,
		recordingScript("mocks", &ran, "mocks"),
		recordingScript("raffle", &ran, "all", "raffle"),
	)

	done, err := r.Run(context.Background(), testEnv(t, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"mocks", "raffle"}, ran)
	assert.Equal(t, ran, done)
}

func TestRunnerFiltersByTag(t *testing.T) {
	var ran []string
	r := newTestRunner(t,
		recordingScript("mocks", &ran, "mocks"),
		recordingScript("raffle", &ran, "all", "raffle"),
	)

	_, err := r.Run(context.Background(), testEnv(t, nil), []string{"raffle"})
	require.NoError(t, err)
	assert.Equal(t, []string{"raffle"}, ran)
}

func TestRunnerExpandsDependencies(t *testing.T) {
	var ran []string
	raffle := recordingScript("raffle", &ran, "raffle")
	raffle.Dependencies = []string{"mocks"}
	r := newTestRunner(t,
		recordingScript("mocks", &ran, "mocks"),
		recordingScript("verify", &ran, "verify"),
		raffle,
	)

	assert.Len(t, r.Select([]string{"raffle"}), 2)
	_, err := r.Run(context.Background(), testEnv(t, nil), []string{"raffle"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mocks", "raffle"}, ran)
}

func TestRunnerStopsAtFirstError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	r := newTestRunner(t,
		Script{Name: "bad", Tags: []string{"all"}, Run: func(context.Context, *Env) error { return boom }},
		recordingScript("raffle", &ran, "all"),
	)

	done, err := r.Run(context.Background(), testEnv(t, nil), []string{"all"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "script bad")
	assert.Empty(t, done)
	assert.Empty(t, ran)
}

func TestRunnerNoMatch(t *testing.T) {
	var ran []string
	r := newTestRunner(t, recordingScript("raffle", &ran, "raffle"))
	_, err := r.Run(context.Background(), testEnv(t, nil), []string{"nope"})
	assert.Error(t, err)
}

func TestRunnerDuplicateName(t *testing.T) {
	var ran []string
	r := NewRunner(zerolog.Nop())
	require.NoError(t, r.Register(recordingScript("raffle", &ran)))
	assert.ErrorIs(t, r.Register(recordingScript("raffle", &ran)), ErrDuplicateScript)
}

func TestRunnerCancelledContext(t *testing.T) {
	var ran []string
	r := newTestRunner(t, recordingScript("raffle", &ran))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, testEnv(t, nil), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ran)
}
