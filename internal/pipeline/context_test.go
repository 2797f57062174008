package pipeline

import (
	"testing"

	"github.com/google/uuid"
)

func TestSessionContextsShareID(t *testing.T) {
	session := uuid.New()
	a := NewSessionContext(session, "1 + 1", "<repl>")
	b := NewSessionContext(session, "2 + 2", "<repl>")
	if a.SessionID != b.SessionID {
		t.Error("contexts of one session must share the session id")
	}
}

func TestIndependentContextsGetDistinctIDs(t *testing.T) {
	a := NewContext("1 + 1", "a.matrix")
	b := NewContext("1 + 1", "b.matrix")
	if a.SessionID == b.SessionID {
		t.Error("independent contexts must not share a session id")
	}
}
