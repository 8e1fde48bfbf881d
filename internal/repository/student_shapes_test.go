package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
)

func TestDecodeCollectionEnvelope(t *testing.T) {
	students, err := decodeCollectionEnvelope([]byte(`{"data":[{"id":1,"firstname":"A","lastname":"B","schoolclass":"1","subject":"S","rating":3}]}`))
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 3, students[0].Rating)

	empty, err := decodeCollectionEnvelope([]byte(`{"data":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, body := range []string{`{}`, `{"data":null}`, `{"data":{"id":1}}`, `[]`, `not json`, `{"data":[{"id":"x"}]}`} {
		_, err := decodeCollectionEnvelope([]byte(body))
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, appErrors.ErrUnexpectedShape), body)
	}
}

func TestDecodeBareCollection(t *testing.T) {
	students, err := decodeBareCollection([]byte(` [{"id":2,"lastname":"Z"}]`))
	require.NoError(t, err)
	require.Len(t, students, 1)

	_, err = decodeBareCollection([]byte(`{"data":[]}`))
	assert.True(t, errors.Is(err, appErrors.ErrUnexpectedShape))
}

func TestRemoteErrorDetail(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: gone", remoteErrorDetail([]byte(`{"error":{"code":"NOT_FOUND","message":"gone","status":404}}`)))
	assert.Equal(t, "", remoteErrorDetail([]byte(`oops`)))
	assert.Equal(t, "", remoteErrorDetail(nil))
}
