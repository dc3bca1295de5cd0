package monitoring

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestSetLogWriter(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	SetLogWriter(&buf, "[pathdecider] ")
	Logf("cycle %d", 7)
	if !strings.HasPrefix(buf.String(), "[pathdecider] ") {
		t.Errorf("missing prefix: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "cycle 7\n") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	SetLogWriter(nil, "")
	Logf("muted")
	if strings.Contains(buf.String(), "muted") {
		t.Error("nil writer should mute the logger")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
}
