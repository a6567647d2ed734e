package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{RequestPrefix, SpanPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		parts := strings.Split(id, "_")
		if len(parts) != 2 || parts[0] != prefix {
			t.Errorf("Prefixed ID should have format '%s_ulid', got: %s", prefix, id)
			continue
		}
		if _, err := ulid.Parse(parts[1]); err != nil {
			t.Errorf("ULID part should be valid: %s", parts[1])
		}
	}
}

func TestNewSessionID(t *testing.T) {
	sessID := NewSessionID()

	parsed, err := uuid.Parse(sessID.String())
	if err != nil {
		t.Fatalf("Session ID should be a UUID, got: %s", sessID)
	}
	if parsed.Version() != 4 {
		t.Errorf("Session ID should be a version 4 UUID, got version %d", parsed.Version())
	}
}

func TestTypedIDPrefixes(t *testing.T) {
	if !strings.HasPrefix(string(NewRequestID()), "req_") {
		t.Error("RequestID should start with 'req_'")
	}
	if !strings.HasPrefix(string(NewSpanID()), "span_") {
		t.Error("SpanID should start with 'span_'")
	}
}

func TestConcurrentSessionIDs(t *testing.T) {
	const goroutines = 50
	const idsPerGoroutine = 50

	var wg sync.WaitGroup
	idChan := make(chan SessionID, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- NewSessionID()
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[SessionID]bool)
	for id := range idChan {
		if seen[id] {
			t.Errorf("Duplicate session ID: %s", id)
		}
		seen[id] = true
	}
}

func TestDefaultGenerator(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same instance")
	}
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(RequestPrefix)
	}
}
