package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recordingMonitor struct {
	errs    []error
	tags    []map[string]string
	panics  int
	flushed bool
}

func (r *recordingMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}

func (r *recordingMonitor) Recover() {
	if v := recover(); v != nil {
		r.panics++
		panic(v)
	}
}

func (r *recordingMonitor) Flush(time.Duration) { r.flushed = true }

func TestGlobalMonitor(t *testing.T) {
	rec := &recordingMonitor{}
	Init(rec)
	defer Init(NopMonitor{})

	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"component": "search"})
	if len(rec.errs) != 1 || rec.tags[0]["component"] != "search" {
		t.Fatalf("unexpected captures %+v", rec.errs)
	}
	Flush(time.Millisecond)
	if !rec.flushed {
		t.Fatalf("flush not forwarded")
	}
	Init(nil)
	CaptureException(errors.New("again"), nil)
	if len(rec.errs) != 2 {
		t.Fatalf("nil Init must keep the previous monitor")
	}
}

func TestReportRepanics(t *testing.T) {
	rec := &recordingMonitor{}
	Init(rec)
	defer Init(NopMonitor{})

	defer func() {
		if v := recover(); v != "worker crashed" {
			t.Fatalf("expected re-panic, got %v", v)
		}
		if rec.panics != 1 {
			t.Fatalf("panic not reported to monitor")
		}
	}()
	func() {
		defer func() { Report(recover()) }()
		panic("worker crashed")
	}()
}
