package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBorrowOperation(t *testing.T) {
	before := testutil.ToFloat64(BorrowOperations.WithLabelValues("borrow", "ok"))
	RecordBorrowOperation("borrow", "ok")
	RecordBorrowOperation("borrow", "ok")
	assert.Equal(t, before+2, testutil.ToFloat64(BorrowOperations.WithLabelValues("borrow", "ok")))
}

func TestRecordFineRecalculation(t *testing.T) {
	updated := testutil.ToFloat64(FinesRecalculated)
	okRuns := testutil.ToFloat64(FineRecalculationRuns.WithLabelValues("ok"))
	errRuns := testutil.ToFloat64(FineRecalculationRuns.WithLabelValues("error"))

	RecordFineRecalculation(3, nil)
	RecordFineRecalculation(10, errors.New("db down"))

	assert.Equal(t, updated+3, testutil.ToFloat64(FinesRecalculated))
	assert.Equal(t, okRuns+1, testutil.ToFloat64(FineRecalculationRuns.WithLabelValues("ok")))
	assert.Equal(t, errRuns+1, testutil.ToFloat64(FineRecalculationRuns.WithLabelValues("error")))
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "GET /api/books", 200, 15*time.Millisecond)
	assert.Positive(t, testutil.CollectAndCount(HTTPRequestDuration))
}
