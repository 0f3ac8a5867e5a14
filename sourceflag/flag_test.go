package sourceflag

import (
	"context"
	"testing"
	"time"

	"github.com/Azhovan/concrete"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 80, "")
	fs.String("db-host", "flag-default", "")
	fs.Duration("timeout", time.Second, "")
	fs.StringSlice("tags", nil, "")
	fs.String("max-conns", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestFlagSource_Read(t *testing.T) {
	database := concrete.NewClass("Database").Field("HOST", "localhost").MustBuild()
	class := concrete.NewClass("App").
		Field("PORT", 8080).
		Field("TIMEOUT", 5*time.Second).
		Field("TAGS", []string{}).
		Field("MAX_CONNS", 10).
		MustBuild()

	fs := newFlagSet(t, "--port=9090", "--db-host=db.local", "--timeout=2m", "--tags=a,b", "--max-conns=25")
	src := New(fs)
	ctx := context.Background()

	tests := []struct {
		name    string
		class   *concrete.Class
		setting string
		parents []string
		want    any
	}{
		{name: "int", class: class, setting: "PORT", want: 9090},
		{name: "duration", class: class, setting: "TIMEOUT", want: 2 * time.Minute},
		{name: "slice", class: class, setting: "TAGS", want: []string{"a", "b"}},
		{name: "underscore to dash", class: class, setting: "MAX_CONNS", want: 25},
		{name: "nested", class: database, setting: "HOST", parents: []string{"DB"}, want: "db.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := tt.class.Setting(tt.setting)
			require.True(t, ok)

			got, err := src.Read(ctx, st, tt.parents)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlagSource_UnchangedFlagIsNotFound(t *testing.T) {
	class := concrete.NewClass("App").Field("PORT", 8080).Field("UNKNOWN", 1).MustBuild()
	src := New(newFlagSet(t))

	for _, name := range []string{"PORT", "UNKNOWN"} {
		st, _ := class.Setting(name)
		got, err := src.Read(context.Background(), st, nil)
		require.NoError(t, err)
		assert.True(t, concrete.IsNotFound(got), name)
	}
}

func TestFlagSource_ConversionError(t *testing.T) {
	class := concrete.NewClass("App").Field("MAX_CONNS", 10).MustBuild()
	src := New(newFlagSet(t, "--max-conns=lots"))

	st, _ := class.Setting("MAX_CONNS")
	_, err := src.Read(context.Background(), st, nil)

	var ce *concrete.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "--max-conns", ce.Key)
}

func TestFlagSource_UpdateWithFlagSet(t *testing.T) {
	class := concrete.NewClass("App").Field("PORT", 8080).MustBuild()
	s := class.New()

	require.NoError(t, s.Update(context.Background(), newFlagSet(t, "--port=1234")))
	assert.Equal(t, 1234, s.MustGet("PORT"))
	assert.Contains(t, concrete.RegisteredSources(), "flag")
}
