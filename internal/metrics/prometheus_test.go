package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDataQuality(t *testing.T) {
	unmapped := testutil.ToFloat64(UnmappedAliasesTotal)
	week := testutil.ToFloat64(ScheduleRowsDroppedTotal.WithLabelValues("week"))

	RecordDataQuality(3, 1, 2, 0)

	assert.Equal(t, unmapped+3, testutil.ToFloat64(UnmappedAliasesTotal))
	assert.Equal(t, week+2, testutil.ToFloat64(ScheduleRowsDroppedTotal.WithLabelValues("week")))
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("prediction", "success"))
	RecordRun("prediction", "success", 1.5)
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("prediction", "success")))
	assert.Greater(t, testutil.ToFloat64(LastSuccessfulRun), 0.0)
}

func TestRecordOracleCall(t *testing.T) {
	before := testutil.ToFloat64(OracleCallsTotal.WithLabelValues("error"))
	RecordOracleCall("error", 0.2)
	assert.Equal(t, before+1, testutil.ToFloat64(OracleCallsTotal.WithLabelValues("error")))
}
