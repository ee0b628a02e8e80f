package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"trace":   TRACE,
		"DEBUG":   DEBUG,
		"":        INFO,
		" info ":  INFO,
		"warning": WARN,
		"error":   ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestComponentLoggerWritesAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	InitDefaultLogger(&buf, WARN, true)
	defer InitDefaultLogger(&bytes.Buffer{}, INFO, true)

	log := GetComponentLogger("tower")
	log.Info("не должно попасть")
	log.Warn("попытка жульничества: осталось %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "не должно попасть")
	assert.Contains(t, out, "попытка жульничества: осталось 2")
	assert.Contains(t, out, "component=tower")
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	InitDefaultLogger(&buf, TRACE, true)
	defer InitDefaultLogger(&bytes.Buffer{}, INFO, true)

	Trace("бросок %d", 7)
	assert.Contains(t, buf.String(), "TRC")
	assert.Contains(t, buf.String(), "бросок 7")
}

func TestListComponents(t *testing.T) {
	InitDefaultLogger(&bytes.Buffer{}, INFO, true)
	GetGameLogger()
	GetComponentLogger("tower")
	Info("без компонента")

	assert.Equal(t, []string{"game", "tower"}, GetLoggerManager().ListComponents())
}
