package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codealchemy/organizer/internal/classify"
	"github.com/codealchemy/organizer/internal/models"
)

func TestClassifyExtension(t *testing.T) {
	tests := []struct {
		path string
		want models.Category
	}{
		{"report.pdf", models.CategoryDocument},
		{"notes.TXT", models.CategoryDocument},
		{"data.csv", models.CategoryDocument},
		{"slides.pptx", models.CategoryDocument},
		{"photo.jpg", models.CategoryImage},
		{"photo.JPEG", models.CategoryImage},
		{"diagram.svg", models.CategoryImage},
		{"clip.mp4", models.CategoryVideo},
		{"movie.mkv", models.CategoryVideo},
		{"song.mp3", models.CategoryAudio},
		{"voice.m4a", models.CategoryAudio},
		{"script.py", models.CategoryCode},
		{"main.go", models.CategoryCode},
		{"config.yaml", models.CategoryCode},
		{"bundle.zip", models.CategoryArchive},
		{"backup.tar", models.CategoryArchive},
		{"unknown.xyz", models.CategoryOther},
		{"no_extension", models.CategoryOther},
		{".hidden", models.CategoryOther},
	}

	c := classify.NewClassifier(false)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.path))
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	// Same input always yields the same category, with no filesystem access
	// for known extensions.
	c := classify.NewClassifier(true)

	for i := 0; i < 3; i++ {
		assert.Equal(t, models.CategoryDocument, c.Classify("/nowhere/report.pdf"))
	}
}

func TestClassifySniffFallback(t *testing.T) {
	tmpDir := t.TempDir()

	// PNG magic bytes under an unknown extension.
	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	pngPath := filepath.Join(tmpDir, "picture.dat1")
	require.NoError(t, os.WriteFile(pngPath, append(pngHeader, make([]byte, 64)...), 0644))

	textPath := filepath.Join(tmpDir, "readme")
	require.NoError(t, os.WriteFile(textPath, []byte("plain text content\n"), 0644))

	sniffer := classify.NewClassifier(true)
	assert.Equal(t, models.CategoryImage, sniffer.Classify(pngPath))
	assert.Equal(t, models.CategoryDocument, sniffer.Classify(textPath))

	// Without sniffing both fall into other.
	plain := classify.NewClassifier(false)
	assert.Equal(t, models.CategoryOther, plain.Classify(pngPath))
	assert.Equal(t, models.CategoryOther, plain.Classify(textPath))
}

func TestClassifyUnreadableFallsBack(t *testing.T) {
	// A sniffing classifier never fails on a missing file; it degrades to
	// extension-only classification.
	c := classify.NewClassifier(true)

	assert.Equal(t, models.CategoryCode, c.Classify("/does/not/exist/tool.py"))
	assert.Equal(t, models.CategoryOther, c.Classify("/does/not/exist/mystery.qqq"))
}
