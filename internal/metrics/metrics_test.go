package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllCollectorsExactlyOnce(t *testing.T) {
	collectors, reg := New()
	require.NotNil(t, collectors.ConsensusRoundDuration)
	require.NotNil(t, collectors.LedgerSequence)
	require.NotNil(t, collectors.TxPoolSize)

	mf, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mf)
}

func TestTwoRegistriesDoNotCollide(t *testing.T) {
	_, regA := New()
	_, regB := New()
	require.NotSame(t, regA, regB)
}

func TestHandlerServesMetrics(t *testing.T) {
	collectors, reg := New()
	collectors.LedgerSequence.Set(7)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
