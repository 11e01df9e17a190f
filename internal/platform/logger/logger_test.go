package logger

import "testing"

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	redactOnce.Do(func() {})
	redactionEnabled = true
	hashSalt = ""

	out := sanitizeKVs([]interface{}{
		"token", "abc",
		"identity", "agent-1",
		"name", "Collective 0",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("len: want=7 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("token: want redacted got=%v", out[1])
	}
	hashed, ok := out[3].(string)
	if !ok || len(hashed) != len("hash:")+12 || hashed == "agent-1" {
		t.Fatalf("identity: want hashed got=%v", out[3])
	}
	if out[5] != "Collective 0" {
		t.Fatalf("name: want passthrough got=%v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("dangling key dropped: %v", out)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.With("repo", "RecordRepo").Info("hello", "k", "v")
	l.Sync()
}
