package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_InvalidType(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Type: "ftp", IsEnabled: true}, nil)
	assert.ErrorIs(t, err, code.ErrorInvalidStorageType)

	_, err = NewClient(context.Background(), nil, nil)
	assert.ErrorIs(t, err, code.ErrorInvalidStorageType)
}

func TestNewClient_Disabled(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Type: LOCAL}, nil)
	assert.ErrorIs(t, err, code.ErrorStorageDisabled)
}

func TestNewClient_Local(t *testing.T) {
	dir := t.TempDir()
	s, err := NewClient(context.Background(), &Config{Type: LOCAL, IsEnabled: true, SavePath: dir}, nil)
	require.NoError(t, err)

	key, err := s.SendFile(context.Background(), "k.txt", strings.NewReader("v"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "k.txt", key)
}

func TestConfig_URL(t *testing.T) {
	local := &Config{Type: LOCAL}
	assert.Equal(t, "/files/a/b.png", local.URL("a/b.png"))

	remote := &Config{Type: S3, PublicURL: "https://cdn.example.com/"}
	assert.Equal(t, "https://cdn.example.com/a/b.png", remote.URL("/a/b.png"))
}
