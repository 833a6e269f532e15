package poppler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPages(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, splitPages("one\ftwo\f"))
	assert.Equal(t, []string{"one", "two"}, splitPages("one\ftwo"))
	assert.Equal(t, []string{""}, splitPages(""))
	assert.Equal(t, []string{"", "b"}, splitPages("\fb\f"))
}
