package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("reduced %d frames", 3)
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op, not a nil func
	called = false
	SetLogger(nil)
	Logf("should be dropped")
	if called {
		t.Error("no-op logger should not have triggered callback")
	}
	if Logf == nil {
		t.Error("Logf must never be nil")
	}
}
