package log

import (
	"errors"
	"io"
	"testing"
	"time"
)

var (
	sampleEpoch    = uint32(7)
	sampleNonce    = []byte("abc")
	sampleAmounts  = []int64{10, 0, -10}
	sampleDuration = time.Second
	sampleTime     = time.Unix(12345678, 0)

	errSample = errors.New("nonce already used")
)

func doLogs() {
	Infof("rolled over %d accounts at epoch %x", sampleEpoch, sampleNonce)
	Debugw("applying transfer", "epoch", sampleEpoch, "mode", "confidential")
	Errorf("cannot commit state transaction: %v", errSample)
	Warnw("various types",
		"amounts", sampleAmounts,
		"duration", sampleDuration,
		"time", sampleTime,
	)
	Error(errSample)
}

func TestCheckInvalidChars(t *testing.T) {
	t.Cleanup(func() { panicOnInvalidChars = false })

	v := []byte{'h', 'e', 'l', 'l', 'o', 0xff, 'w', 'o', 'r', 'l', 'd'}
	panicOnInvalidChars = false
	Init("debug", "stderr", nil)
	Debugf("%s", v)
	// should not panic since the check is disabled. if it panics, test will fail

	// now enable panic and try again: should recover() and never reach t.Errorf()
	panicOnInvalidChars = true
	Init("debug", "stderr", nil)
	defer func() { recover() }()
	Debugf("%s", v)
	t.Errorf("Debugf(%s) should have panicked because of invalid char", v)
}

func TestLevel(t *testing.T) {
	Init("warn", "stderr", nil)
	if Level() != LogLevelWarn {
		t.Errorf("expected warn level, got %s", Level())
	}
}

func BenchmarkLogger(b *testing.B) {
	logTestWriter = io.Discard // to not grow a buffer
	Init("debug", logTestWriterName, nil)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doLogs()
	}
}
