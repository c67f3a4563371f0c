package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cfssim/cfssim/pkg/sched"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_SampleReflectsTable(t *testing.T) {
	tbl := sched.NewTable(4)
	_, err := tbl.UserInit("p")
	require.NoError(t, err)

	c := NewCollector(tbl)
	c.Sample()

	reg := prometheus.NewRegistry()
	c.Register(reg)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var sawReadySize bool
	for _, mf := range mfs {
		if mf.GetName() == "cfssim_ready_set_size" {
			sawReadySize = true
			require.Len(t, mf.Metric, 1)
			assert.Equal(t, float64(1), mf.Metric[0].GetGauge().GetValue())
		}
	}
	assert.True(t, sawReadySize, "ready set gauge must be registered and gathered")
}

func TestServeHTTP_ResamplesOnScrape(t *testing.T) {
	tbl := sched.NewTable(4)
	_, err := tbl.UserInit("p")
	require.NoError(t, err)

	c := NewCollector(tbl)
	reg := prometheus.NewRegistry()
	c.Register(reg)

	srv := httptest.NewServer(ServeHTTP(reg, c))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(strings.Builder)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cfssim_ready_set_size 1")
}
