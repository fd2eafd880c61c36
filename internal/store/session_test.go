package store

import (
	"testing"
)

func TestSessionCreate(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	us := NewUserStore(db)

	u := createTestUser(t, us, "alice@example.com")

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.Token == "" {
		t.Error("expected non-empty token")
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}
}

func TestSessionGetByToken(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	us := NewUserStore(db)

	u := createTestUser(t, us, "alice@example.com")
	created, _ := ss.Create(u.ID)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.ID != created.ID {
		t.Errorf("id = %d, want %d", sess.ID, created.ID)
	}
}

func TestSessionGetByTokenNotFound(t *testing.T) {
	ss := NewSessionStore(setupTestDB(t))

	sess, err := ss.GetByToken("nonexistent")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for nonexistent token")
	}
}

func TestSessionExpired(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	us := NewUserStore(db)

	u := createTestUser(t, us, "alice@example.com")
	created, _ := ss.Create(u.ID)

	// Force the session into the past
	if _, err := db.Exec(`UPDATE sessions SET expires_at = datetime('now', '-1 hour') WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("expire session: %v", err)
	}

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for expired session")
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
}

func TestSessionDelete(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	us := NewUserStore(db)

	u := createTestUser(t, us, "alice@example.com")
	created, _ := ss.Create(u.ID)

	if err := ss.Delete(created.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	sess, _ := ss.GetByToken(created.Token)
	if sess != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionDeletedWithUser(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	us := NewUserStore(db)

	u := createTestUser(t, us, "alice@example.com")
	created, _ := ss.Create(u.ID)

	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	sess, _ := ss.GetByToken(created.Token)
	if sess != nil {
		t.Error("expected session removed with user")
	}
}
