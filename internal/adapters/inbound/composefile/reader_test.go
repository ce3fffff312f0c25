package composefile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/adapters/inbound/composefile"
	"github.com/skillcoder/specctl/internal/logic/compose"
)

const project = `
services:
  web:
    image: nginx:1.25
    ports:
      - "8080:80"
      - 443
      - target: 9000
        published: "9001"
        protocol: udp
    expose: ["80"]
    environment:
      MODE: prod
      EMPTY:
    labels:
      - tier=front
    command: nginx -g 'daemon off;'
    deploy:
      replicas: 2
  db:
    build: ./db
    environment:
      - POSTGRES_DB=app
      - POSTGRES_USER=admin
    entrypoint: ["docker-entrypoint.sh"]
`

func TestDecode(t *testing.T) {
	t.Parallel()

	got, err := composefile.Decode(strings.NewReader(project))
	require.NoError(t, err)
	require.Len(t, got.Services, 2)

	web := got.Services[0]
	require.Equal(t, "web", web.Name)
	require.Equal(t, "nginx:1.25", web.Image)
	require.Equal(t, []string{"8080:80", "443", "9001:9000/udp"}, web.Ports)
	require.Equal(t, []string{"80"}, web.Expose)
	require.Equal(t, []compose.EnvVar{{Name: "MODE", Value: "prod"}, {Name: "EMPTY"}}, web.Environment)
	require.Equal(t, map[string]string{"tier": "front"}, web.Labels)
	require.Equal(t, []string{"nginx", "-g", "daemon off;"}, web.Command)
	require.NotNil(t, web.Replicas)
	require.Equal(t, int32(2), *web.Replicas)

	db := got.Services[1]
	require.Equal(t, "db", db.Name)
	require.Empty(t, db.Image)
	require.Equal(t, []compose.EnvVar{
		{Name: "POSTGRES_DB", Value: "app"},
		{Name: "POSTGRES_USER", Value: "admin"},
	}, db.Environment)
	require.Equal(t, []string{"docker-entrypoint.sh"}, db.Entrypoint)
	require.Nil(t, db.Replicas)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		wantErr error
	}{
		{name: "empty", give: "", wantErr: composefile.ErrNoServices},
		{name: "no services", give: "version: '3'\n", wantErr: composefile.ErrNoServices},
		{name: "ports not a list", give: "services:\n  a:\n    ports: 80\n", wantErr: composefile.ErrDecode},
		{name: "broken yaml", give: "services: [\n", wantErr: composefile.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := composefile.Decode(strings.NewReader(tt.give))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# ports\nWEB_PORT=8000\nURL=http://db:5432/app\nGREETING=\"hello world\"\n"), 0o600))

	vars, err := composefile.LoadEnvFile(path)
	require.NoError(t, err)
	require.Equal(t, compose.Variables{
		"WEB_PORT": "8000",
		"URL":      "http://db:5432/app",
		"GREETING": "hello world",
	}, vars)
}

func TestEnviron(t *testing.T) {
	t.Parallel()

	require.Equal(t, compose.Variables{"A": "1", "B": "x=y", "C": ""},
		composefile.Environ([]string{"A=1", "B=x=y", "C=", "=bad", "novalue"}))
}
