package integrity

import "testing"

func testKeyring(t *testing.T) *Keyring {
	t.Helper()
	ring, err := NewKeyring(map[string][]byte{"v1": []byte("root-secret")}, "v1")
	if err != nil {
		t.Fatalf("new keyring: %v", err)
	}
	return ring
}

func TestSignAndVerifyChainHash(t *testing.T) {
	ring := testKeyring(t)

	sig, keyID, err := ring.SignChainHash("agent-1", "abc123")
	if err != nil {
		t.Fatalf("sign chain hash: %v", err)
	}
	if keyID != "v1" {
		t.Fatalf("key id = %q, want %q", keyID, "v1")
	}
	if err := ring.VerifyChainHash("agent-1", "abc123", sig, keyID); err != nil {
		t.Fatalf("verify chain hash: %v", err)
	}
}

func TestVerifyRejectsTamperedHash(t *testing.T) {
	ring := testKeyring(t)

	sig, keyID, err := ring.SignChainHash("agent-1", "abc123")
	if err != nil {
		t.Fatalf("sign chain hash: %v", err)
	}
	if err := ring.VerifyChainHash("agent-1", "abc124", sig, keyID); err == nil {
		t.Fatal("expected verification failure for tampered hash")
	}
}

func TestSignaturesAreAgentScoped(t *testing.T) {
	ring := testKeyring(t)

	sig, keyID, err := ring.SignChainHash("agent-1", "abc123")
	if err != nil {
		t.Fatalf("sign chain hash: %v", err)
	}
	if err := ring.VerifyChainHash("agent-2", "abc123", sig, keyID); err == nil {
		t.Fatal("expected verification failure for different agent")
	}
}

func TestNewKeyringValidation(t *testing.T) {
	if _, err := NewKeyring(nil, "v1"); err == nil {
		t.Fatal("expected error for empty keys")
	}
	if _, err := NewKeyring(map[string][]byte{"v1": []byte("k")}, " "); err == nil {
		t.Fatal("expected error for empty active key id")
	}
	if _, err := NewKeyring(map[string][]byte{"v1": []byte("k")}, "v2"); err == nil {
		t.Fatal("expected error for unconfigured active key id")
	}
}

func TestVerifyUnknownKeyID(t *testing.T) {
	ring := testKeyring(t)
	if err := ring.VerifyChainHash("agent-1", "abc123", "sig", "v9"); err == nil {
		t.Fatal("expected error for unknown key id")
	}
}
