package style_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/ui/style"
)

func TestPalette_NoColorRendersPlainText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	p := style.NewPalette(&bytes.Buffer{})

	assert.Equal(t, style.Check+" done", p.Success.Render(style.Check+" done"))
	assert.Equal(t, "failed", p.Failure.Render("failed"))
}
