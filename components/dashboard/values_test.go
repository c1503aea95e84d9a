package dashboard

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "8,920", FormatCount(8920))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "-12,000", FormatCount(-12000))
}

func TestFormatRate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "78%", FormatRate(0.78))
	assert.Equal(t, "83%", FormatRate(0.826))
	assert.Equal(t, "0%", FormatRate(0))
}

func TestIntValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 7, intValue(7, 1))
	assert.Equal(t, 7, intValue(float64(7), 1))
	assert.Equal(t, 7, intValue(json.Number("7"), 1))
	assert.Equal(t, 7, intValue(" 7 ", 1))
	assert.Equal(t, 1, intValue("seven", 1))
	assert.Equal(t, 1, intValue(nil, 1))
}

func TestFormatAgo(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "just now", FormatAgo(10*time.Second))
	assert.Equal(t, "1 minute ago", FormatAgo(time.Minute))
	assert.Equal(t, "2 hours ago", FormatAgo(2*time.Hour))
	assert.Equal(t, "3 days ago", FormatAgo(72*time.Hour))
}
