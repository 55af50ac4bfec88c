package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	chrome := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	assert.Contains(t, Summarize(chrome), "Chrome")

	assert.Equal(t, "Unknown Device", Summarize(""))
	assert.NotEmpty(t, Summarize("curl/8.4.0"))
}
