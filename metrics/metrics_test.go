/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/proxy/metrics"
)

func TestMetrics_Observe(t *testing.T) {
	m := metrics.New("test")
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, m.Register(reg))

	m.ObserveSynthesis(metrics.ResultMiss, 1)
	m.ObserveSynthesis(metrics.ResultHit, 1)
	m.ObserveSynthesis(metrics.ResultHit, 1)
	m.ObserveSynthesis(metrics.ResultError, 1)
	m.ObserveInstance()
	m.ObserveInstance()
	m.ObserveInvocation("intercept")

	n, err := testutil.GatherAndCount(reg, "test_proxy_synthesis_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n) // one series per result

	n, err = testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3+1+1+1, n)

	cs := m.Collectors()
	assert.Equal(t, float64(2), testutil.ToFloat64(cs[1]))
	assert.Equal(t, float64(1), testutil.ToFloat64(cs[3]))
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.New("a").Register(reg))
	require.Error(t, metrics.New("a").Register(reg))
	require.NoError(t, metrics.New("b").Register(reg))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveSynthesis(metrics.ResultHit, 0)
		m.ObserveInstance()
		m.ObserveInvocation("replace")
		assert.Nil(t, m.Collectors())
		assert.NoError(t, m.Register(prometheus.NewRegistry()))
	})
}
