package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrateFolder(t *testing.T) {
	assert.Nil(t, CrateFolder(""))
	assert.Equal(t, []string{"1"}, CrateFolder("a"))
	assert.Equal(t, []string{"2"}, CrateFolder("ab"))
	assert.Equal(t, []string{"3"}, CrateFolder("abc"))
	assert.Equal(t, []string{"ab", "cd"}, CrateFolder("abcd"))
	assert.Equal(t, []string{"se", "rd"}, CrateFolder("serde"))
}
