package concrete

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dumpFixture(t *testing.T) *Settings {
	t.Helper()

	database := NewClass("Database").
		Field("HOST", NewSetting("localhost", WithDoc("database host"))).
		Field("PASSWORD", NewSetting("hunter2", WithBehaviors(Secret()))).
		MustBuild()

	app := NewClass("App").
		Field("NAME", "svc").
		Field("PORT", 8080).
		Field("TIMEOUT", 5*time.Second).
		Field("TAGS", []string{"a", "b"}).
		Declare("TOKEN", TypeOf[string](), Undefined).
		Field("DB", database.New()).
		Field("ADDR", ComputedOf(func(s *Settings) string {
			return fmt.Sprintf("%s:%d", s.MustGet("NAME"), s.MustGet("PORT"))
		})).
		MustBuild()

	return app.New()
}

func TestDumpEffective_Text(t *testing.T) {
	s := dumpFixture(t)

	var buf bytes.Buffer
	require.NoError(t, DumpEffective(&buf, s))

	want := `NAME: "svc"
PORT: 8080
TIMEOUT: 5s
TAGS: [a, b]
TOKEN: <undefined>
DB.HOST: "localhost"
DB.PASSWORD: ***redacted***
ADDR: "svc:8080"
`
	assert.Equal(t, want, buf.String())
}

func TestDumpEffective_WithSources(t *testing.T) {
	s := dumpFixture(t)
	src := &mapSource{name: "test", values: map[string]any{"PORT": 9090, "DB.HOST": "db.local"}}
	require.NoError(t, s.Update(context.Background(), src))

	var buf bytes.Buffer
	require.NoError(t, DumpEffective(&buf, s, WithSources()))

	out := buf.String()
	assert.Contains(t, out, "PORT: 9090 (source: test)\n")
	assert.Contains(t, out, `DB.HOST: "db.local" (source: test)`)
	assert.Contains(t, out, "NAME: \"svc\"\n")
	assert.Contains(t, out, `ADDR: "svc:9090"`)
}

func TestDumpEffective_JSON(t *testing.T) {
	s := dumpFixture(t)

	var buf bytes.Buffer
	require.NoError(t, DumpEffective(&buf, s, AsJSON()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "svc", got["NAME"])
	assert.Equal(t, float64(8080), got["PORT"])
	assert.Equal(t, "5s", got["TIMEOUT"])
	assert.Nil(t, got["TOKEN"])
	assert.Equal(t, "svc:8080", got["ADDR"])
	assert.Equal(t, map[string]any{"HOST": "localhost", "PASSWORD": "***redacted***"}, got["DB"])
}

func TestDumpEffective_JSONIndent(t *testing.T) {
	s := NewClass("App").Field("A", 1).MustBuild().New()

	var buf bytes.Buffer
	require.NoError(t, DumpEffective(&buf, s, AsJSON(), WithIndent("")))
	assert.Equal(t, "{\"A\":1}\n", buf.String())

	buf.Reset()
	require.NoError(t, DumpEffective(&buf, s, AsJSON()))
	assert.Equal(t, "{\n  \"A\": 1\n}\n", buf.String())
}

func TestDumpEffective_Table(t *testing.T) {
	s := dumpFixture(t)

	var buf bytes.Buffer
	require.NoError(t, DumpEffective(&buf, s, AsTable()))

	out := buf.String()
	assert.Contains(t, out, "DB.HOST")
	assert.Contains(t, out, "database host")
	assert.Contains(t, out, "time.Duration")
	assert.Contains(t, out, "***redacted***")
	assert.NotContains(t, out, "hunter2")
}

func TestDumpEffective_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, DumpEffective(&buf, nil), ErrNilSettings)
}

func TestDumpEffective_DoesNotNotifyBehaviors(t *testing.T) {
	var logs bytes.Buffer
	class := NewClass("App").
		Logger(debugLogger(&logs)).
		Field("OLD", NewSetting(1, WithBehaviors(Deprecated("use NEW")))).
		MustBuild()

	var buf bytes.Buffer
	require.NoError(t, DumpEffective(&buf, class.New()))
	assert.Empty(t, logs.String())
}
