package attempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownClampsNegativeSeconds(t *testing.T) {
	countdown := NewCountdown(-5)

	assert.Equal(t, 0, countdown.Remaining())
	assert.Equal(t, TimerIdle, countdown.State())
}

func TestCountdownStaysGatedUntilStart(t *testing.T) {
	countdown := NewCountdown(3)

	assert.False(t, countdown.Tick())
	assert.Equal(t, 3, countdown.Remaining())

	countdown.Start()
	assert.Equal(t, TimerRunning, countdown.State())
	assert.False(t, countdown.Tick())
	assert.Equal(t, 2, countdown.Remaining())
}

func TestCountdownWithNoTimeNeverStarts(t *testing.T) {
	countdown := NewCountdown(0)
	countdown.Start()

	assert.Equal(t, TimerIdle, countdown.State())
	assert.False(t, countdown.Tick())
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	countdown := NewCountdown(5)
	countdown.Start()

	fires := 0
	for i := 0; i < 10; i++ {
		if countdown.Tick() {
			fires++
		}
	}

	assert.Equal(t, 1, fires)
	assert.Equal(t, 0, countdown.Remaining())
	assert.Equal(t, TimerExpired, countdown.State())
}

func TestCountdownStopHaltsTicks(t *testing.T) {
	countdown := NewCountdown(10)
	countdown.Start()
	assert.False(t, countdown.Tick())

	countdown.Stop()
	assert.Equal(t, TimerIdle, countdown.State())
	assert.False(t, countdown.Tick())
	assert.Equal(t, 9, countdown.Remaining())
}

func TestAnswerSheetLastWriteWins(t *testing.T) {
	sheet := NewAnswerSheet()

	sheet.Set(7, "A")
	sheet.Set(7, "C")

	answer, ok := sheet.Get(7)
	assert.True(t, ok)
	assert.Equal(t, "C", answer)
	assert.Equal(t, 1, sheet.Count())
}

func TestAnswerSheetSnapshotIsACopy(t *testing.T) {
	sheet := NewAnswerSheet()
	sheet.Set(1, "A")

	snapshot := sheet.Snapshot()
	snapshot[1] = "B"
	snapshot[2] = "D"

	answer, _ := sheet.Get(1)
	assert.Equal(t, "A", answer)
	assert.Equal(t, 1, sheet.Count())

	_, ok := sheet.Get(2)
	assert.False(t, ok)
}
