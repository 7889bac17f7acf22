package ddcctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetRetryMax_ClampsToBounds(t *testing.T) {
	rt := NewRuntime(nil)

	rt.SetRetryMax(ClassWriteRead, 0)
	assert.Equal(t, 1, rt.RetryMax(ClassWriteRead))

	rt.SetRetryMax(ClassWriteRead, MaxRetryUpperBound+10)
	assert.Equal(t, MaxRetryUpperBound, rt.RetryMax(ClassWriteRead))

	rt.SetRetryMax(ClassWriteRead, 7)
	assert.Equal(t, 7, rt.RetryMax(ClassWriteRead))
}

func TestSleep_RecordsStats(t *testing.T) {
	rt := NewRuntime(nil)
	rt.SetSleepDuration(PhasePostOpen, 0)

	rt.Sleep(PhasePostOpen)

	_, sleepSnap := rt.Stats().Snapshot()
	assert.Equal(t, uint64(1), sleepSnap.Calls)
}

func TestStats_ResetZeroesCounters(t *testing.T) {
	rt := NewRuntime(nil)
	rt.SetSleepDuration(PhasePostOpen, 0)
	rt.Sleep(PhasePostOpen)
	rt.Stats().RecordOutcome(ClassWriteRead, 2, nil)

	rt.Stats().Reset()

	classes, sleepSnap := rt.Stats().Snapshot()
	assert.Equal(t, uint64(0), sleepSnap.Calls)
	assert.Empty(t, classes[ClassWriteRead].SuccessByTry)
}

func TestVerifyOnSetAndStrategy_DefaultToZeroValue(t *testing.T) {
	rt := NewRuntime(nil)
	assert.False(t, rt.VerifyOnSet())
	assert.Equal(t, StrategyByteStream, rt.Strategy())

	rt.SetVerifyOnSet(true)
	rt.SetStrategy(StrategyIoctl)
	assert.True(t, rt.VerifyOnSet())
	assert.Equal(t, StrategyIoctl, rt.Strategy())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "post-open", PhasePostOpen.String())
	assert.Equal(t, "write-to-read", PhaseWriteToRead.String())
}
