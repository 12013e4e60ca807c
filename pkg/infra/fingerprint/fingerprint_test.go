package fingerprint_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeyguard/honeygate/pkg/infra/fingerprint"
)

func TestFingerprint_RoundTrip(t *testing.T) {
	original := fingerprint.New("192.168.0.1", "Mozilla/5.0")

	decoded, err := fingerprint.NewFromID(original.ID())
	require.NoError(t, err)
	assert.Equal(t, original.IP, decoded.IP)
	assert.Equal(t, original.UserAgent, decoded.UserAgent)
}

func TestFingerprint_TrimsInput(t *testing.T) {
	fp := fingerprint.New("  10.0.0.1\n", " curl/8.5 ")

	assert.Equal(t, "10.0.0.1", fp.IP)
	assert.Equal(t, "curl/8.5", fp.UserAgent)
}

func TestFingerprint_EmptyUserAgent(t *testing.T) {
	fp := fingerprint.New("192.168.1.1", "")

	decoded, err := fingerprint.NewFromID(fp.ID())
	require.NoError(t, err)
	assert.Equal(t, fp.IP, decoded.IP)
	assert.Empty(t, decoded.UserAgent)
}

func TestFingerprint_UserAgentWithSeparator(t *testing.T) {
	fp := fingerprint.New("10.0.0.1", "weird|agent|string")

	decoded, err := fingerprint.NewFromID(fp.ID())
	require.NoError(t, err)
	assert.Equal(t, "weird|agent|string", decoded.UserAgent)
}

func TestNewFromID_InvalidBase64(t *testing.T) {
	_, err := fingerprint.NewFromID("%%%not-base64%%%")
	assert.Error(t, err)
}

func TestNewFromID_MissingSeparator(t *testing.T) {
	id := base64.StdEncoding.EncodeToString([]byte("no-separator"))

	_, err := fingerprint.NewFromID(id)
	assert.Error(t, err)
}
