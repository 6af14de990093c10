package dataencoding

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/interfaces"
)

var (
	_ interfaces.DataEncoder = Plain{}
	_ interfaces.DataEncoder = (*AEADEncoder)(nil)
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestPlain(t *testing.T) {
	s, err := Plain{}.Encode(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, s)
	s, err = Plain{}.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, s)
}

func TestAEADEncoderRejectsShortSecret(t *testing.T) {
	_, err := NewAEADEncoder([]byte("short"))
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestAEADEncoderHidesData(t *testing.T) {
	e, err := NewAEADEncoder(testSecret)
	require.NoError(t, err)
	a, err := e.Encode(`{"name":"page.display"}`)
	require.NoError(t, err)
	b, err := e.Encode(`{"name":"page.display"}`)
	require.NoError(t, err)
	assert.NotContains(t, a, "page.display")
	assert.NotEqual(t, a, b)
}

func TestAEADEncoderRejectsForeignData(t *testing.T) {
	e, err := NewAEADEncoder(testSecret)
	require.NoError(t, err)
	other, err := NewAEADEncoder([]byte("another secret that is long enough"))
	require.NoError(t, err)
	encoded, err := other.Encode("data")
	require.NoError(t, err)

	_, err = e.Decode(encoded)
	assert.ErrorIs(t, err, ErrMalformedData)
	_, err = e.Decode("not base64!")
	assert.ErrorIs(t, err, ErrMalformedData)
	_, err = e.Decode("")
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestAEADEncoderRoundTrip(t *testing.T) {
	e, err := NewAEADEncoder(testSecret)
	require.NoError(t, err)

	properties := gopter.NewProperties(nil)
	properties.Property("decode inverts encode", prop.ForAll(
		func(s string) bool {
			encoded, err := e.Encode(s)
			if err != nil {
				return false
			}
			decoded, err := e.Decode(encoded)
			return err == nil && decoded == s
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}
