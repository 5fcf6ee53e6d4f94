package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField_PrefixesErrorsWithName(t *testing.T) {
	v := Field("roomCode", Required(), Length(6))

	assert.NoError(t, v("ABC234"))
	assert.EqualError(t, v(""), "roomCode: this field is required")
	assert.EqualError(t, v("ABC"), "roomCode: must be exactly 6 characters")
}

func TestCompose_FirstErrorWins(t *testing.T) {
	v := Compose(MinLength(3), MaxLength(5))

	assert.NoError(t, v("abcd"))
	assert.Error(t, v("ab"))
	assert.Error(t, v("abcdef"))
}

func TestAlphanumeric(t *testing.T) {
	v := Alphanumeric()

	assert.NoError(t, v("ABC234"))
	assert.Error(t, v("ABC-34"))
	assert.Error(t, v("ABC 34"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("lobby", "drawing", "judging", "results")

	assert.NoError(t, v("drawing"))
	assert.Error(t, v("intermission"))
}
