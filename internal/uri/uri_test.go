package uri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DiffRequest(t *testing.T) {
	req, err := Parse("clipdiff://klb.clipdiff/diff?path=%2Fx%2Fy%2Ff%20g.txt")
	require.NoError(t, err)
	assert.Equal(t, "/x/y/f g.txt", req.FilePath, "path parameter is URL-decoded")
}

func TestParse_UnknownPath(t *testing.T) {
	_, err := Parse("clipdiff://klb.clipdiff/somethingelse?path=%2Ff")
	assert.ErrorIs(t, err, ErrUnknownPath)

	_, err = Parse("clipdiff://klb.clipdiff/")
	assert.ErrorIs(t, err, ErrUnknownPath)
}

func TestParse_MissingPath(t *testing.T) {
	_, err := Parse("clipdiff://klb.clipdiff/diff")
	assert.ErrorIs(t, err, ErrMissingPath)

	_, err = Parse("clipdiff://klb.clipdiff/diff?path=")
	assert.ErrorIs(t, err, ErrMissingPath)
}

func TestParse_WrongScheme(t *testing.T) {
	_, err := Parse("https://klb.clipdiff/diff?path=%2Ff")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownPath)
}
