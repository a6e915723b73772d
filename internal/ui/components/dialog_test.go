package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertDialogIncludesTitleMessageAndHint(t *testing.T) {
	out := AlertDialog("Error", "Not Found", 0, 80)
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Error")
	assert.Contains(t, clean, "Not Found")
	assert.Contains(t, clean, "enter: dismiss")
	assert.NotContains(t, clean, "more")
}

func TestAlertDialogShowsQueuedCount(t *testing.T) {
	out := AlertDialog("Error", "timeout", 2, 80)
	assert.Contains(t, SanitizeText(out), "2 more")
}
