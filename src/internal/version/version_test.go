package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	s := String()
	assert.True(t, strings.HasPrefix(s, "logsieve "+Version+" "))
	assert.Contains(t, s, runtime.Version())
	assert.Equal(t, Version, Info()["version"])
}
