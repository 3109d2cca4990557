package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDBOptions struct {
	Driver          string        `cfg:"driver" def:"mysql" validate:"oneof=mysql sqlite3 pgx"`
	Host            string        `cfg:"host" def:"localhost"`
	Port            int           `cfg:"port" def:"3306"`
	MaxConns        int           `cfg:"maxConns" def:"10"`
	ConnMaxLifetime time.Duration `cfg:"connMaxLifetime" def:"60s"`
	Tags            []string      `cfg:"tags"`
}

type testOptions struct {
	Name    string            `cfg:"name" validate:"required"`
	Debug   bool              `cfg:"debug"`
	Ratio   float64           `cfg:"ratio" def:"0.5"`
	DB      testDBOptions     `cfg:"db"`
	Labels  map[string]string `cfg:"labels"`
	Skipped string            `cfg:"-"`
}

func TestLoadBytesYAML(t *testing.T) {
	data := []byte(`
name: goblog
debug: true
db:
  driver: sqlite3
  port: 3307
  connMaxLifetime: 5m
  tags: [a, b]
labels:
  env: test
`)
	var opts testOptions
	require.NoError(t, LoadBytes(data, &opts, WithFormat("yaml")))

	assert.Equal(t, "goblog", opts.Name)
	assert.True(t, opts.Debug)
	assert.Equal(t, 0.5, opts.Ratio)
	assert.Equal(t, "sqlite3", opts.DB.Driver)
	assert.Equal(t, "localhost", opts.DB.Host)
	assert.Equal(t, 3307, opts.DB.Port)
	assert.Equal(t, 10, opts.DB.MaxConns)
	assert.Equal(t, 5*time.Minute, opts.DB.ConnMaxLifetime)
	assert.Equal(t, []string{"a", "b"}, opts.DB.Tags)
	assert.Equal(t, map[string]string{"env": "test"}, opts.Labels)
}

func TestLoadBytesJSONAndTOML(t *testing.T) {
	var fromJSON testOptions
	require.NoError(t, LoadBytes([]byte(`{"name": "j", "db": {"port": 5432, "driver": "pgx"}}`), &fromJSON, WithFormat("json")))
	assert.Equal(t, "j", fromJSON.Name)
	assert.Equal(t, 5432, fromJSON.DB.Port)
	assert.Equal(t, "pgx", fromJSON.DB.Driver)

	var fromTOML testOptions
	require.NoError(t, LoadBytes([]byte("name = \"t\"\nratio = 0.25\n[db]\nport = 13306\n"), &fromTOML, WithFormat("toml")))
	assert.Equal(t, "t", fromTOML.Name)
	assert.Equal(t, 0.25, fromTOML.Ratio)
	assert.Equal(t, 13306, fromTOML.DB.Port)
	assert.Equal(t, "mysql", fromTOML.DB.Driver)
}

func TestLoadBytesINI(t *testing.T) {
	data := []byte("name = i\ndebug = true\n\n[db]\nhost = db.local\nport = 3310\ntags = x, y\n")
	var opts testOptions
	require.NoError(t, LoadBytes(data, &opts, WithFormat("ini")))

	assert.Equal(t, "i", opts.Name)
	assert.True(t, opts.Debug)
	assert.Equal(t, "db.local", opts.DB.Host)
	assert.Equal(t, 3310, opts.DB.Port)
	assert.Equal(t, []string{"x", "y"}, opts.DB.Tags)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: file\n"), 0644))

	var opts testOptions
	require.NoError(t, Load(path, &opts))
	assert.Equal(t, "file", opts.Name)

	err := Load(filepath.Join(dir, "missing.yaml"), &opts)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GOBLOG_DB_HOST", "env.local")
	t.Setenv("GOBLOG_DB_PORT", "4000")
	t.Setenv("GOBLOG_NAME", "from-env")

	var opts testOptions
	require.NoError(t, LoadBytes([]byte("name: file\n"), &opts, WithFormat("yaml"), WithEnvPrefix("GOBLOG_")))
	assert.Equal(t, "from-env", opts.Name)
	assert.Equal(t, "env.local", opts.DB.Host)
	assert.Equal(t, 4000, opts.DB.Port)
}

func TestLoadValidation(t *testing.T) {
	var opts testOptions
	err := LoadBytes([]byte("debug: true\n"), &opts, WithFormat("yaml"))
	assert.Error(t, err)

	err = LoadBytes([]byte("name: x\ndb:\n  driver: oracle\n"), &opts, WithFormat("yaml"))
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	var opts testOptions
	assert.Error(t, LoadBytes([]byte("name: x"), &opts, WithFormat("xml")))
	assert.Error(t, LoadBytes([]byte("name: x"), opts, WithFormat("yaml")))
	assert.Error(t, LoadBytes([]byte("db: 1"), &opts, WithFormat("yaml")))
	assert.Error(t, LoadBytes([]byte("name: x\nratio: abc\n"), &opts, WithFormat("yaml")))
}

func TestConvertTo(t *testing.T) {
	var opts testOptions
	err := ConvertTo(map[string]any{
		"NAME":    "upper",
		"Skipped": "ignored",
		"db":      map[any]any{"port": 3306.0, "maxconns": "20"},
	}, &opts)
	require.NoError(t, err)
	assert.Equal(t, "upper", opts.Name)
	assert.Equal(t, "", opts.Skipped)
	assert.Equal(t, 3306, opts.DB.Port)
	assert.Equal(t, 20, opts.DB.MaxConns)

	err = ConvertTo(map[string]any{"db": map[string]any{"port": 1.5}}, &opts)
	assert.Error(t, err)
}

func TestSetDefaults(t *testing.T) {
	opts := testOptions{DB: testDBOptions{Port: 1}}
	require.NoError(t, SetDefaults(&opts))
	assert.Equal(t, 1, opts.DB.Port)
	assert.Equal(t, "localhost", opts.DB.Host)
	assert.Equal(t, 60*time.Second, opts.DB.ConnMaxLifetime)
	assert.Equal(t, 0.5, opts.Ratio)

	assert.Error(t, SetDefaults(opts))
}
