package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWithin(t *testing.T) {
	root := t.TempDir()
	frames := filepath.Join(root, "frames")
	outside := filepath.Join(root, "outside")
	require.NoError(t, os.MkdirAll(filepath.Join(frames, "round-01", "normal"), 0755))
	require.NoError(t, os.MkdirAll(outside, 0755))
	require.NoError(t, os.Symlink(outside, filepath.Join(frames, "evil-link")))

	tests := []struct {
		name    string
		rel     string
		want    string
		escapes bool
	}{
		{name: "frame file", rel: "round-01/normal/step-0001.png", want: filepath.Join(frames, "round-01", "normal", "step-0001.png")},
		{name: "dot segments inside root", rel: "round-01/../round-01/x.png", want: filepath.Join(frames, "round-01", "x.png")},
		{name: "parent traversal", rel: "../outside/secret.txt", escapes: true},
		{name: "deep traversal", rel: "round-01/../../../etc/passwd", escapes: true},
		{name: "absolute path", rel: "/etc/passwd", escapes: true},
		{name: "symlink out of root", rel: "evil-link/secret.txt", escapes: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWithin(frames, tt.rel)
			if tt.escapes {
				assert.ErrorIs(t, err, ErrPathEscape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveWithinMissingRoot(t *testing.T) {
	got, err := ResolveWithin("/runs/abc/frames", "round-02/quantum/step-0003.png")
	require.NoError(t, err)
	assert.Equal(t, "/runs/abc/frames/round-02/quantum/step-0003.png", got)

	_, err = ResolveWithin("/runs/abc/frames", "../summary.json")
	assert.ErrorIs(t, err, ErrPathEscape)

	_, err = ResolveWithin("/runs/abc/frames", "")
	assert.Error(t, err)
}
