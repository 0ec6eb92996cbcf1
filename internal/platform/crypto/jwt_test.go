package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testSubject() TokenSubject {
	return TokenSubject{UserID: "test-user-id", Username: "alice", Role: RoleUser, MemberID: 7}
}

func TestGenerateToken_WithJTI(t *testing.T) {
	secret := "test-secret"

	token, jti, err := GenerateToken(secret, testSubject(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token == "" {
		t.Error("Expected token to be generated")
	}
	if jti == "" {
		t.Error("Expected JTI to be generated")
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("Expected no error parsing token, got %v", err)
	}
	if claims.ID != jti {
		t.Errorf("Expected JTI %s, got %s", jti, claims.ID)
	}
	if claims.Sub != "test-user-id" || claims.Role != RoleUser {
		t.Errorf("unexpected subject %s/%s", claims.Sub, claims.Role)
	}
	if claims.MemberID != 7 || claims.Username != "alice" {
		t.Errorf("unexpected member %d/%s", claims.MemberID, claims.Username)
	}
}

func TestParseToken_InvalidToken(t *testing.T) {
	if _, err := ParseToken("test-secret", "invalid.token.here"); err == nil {
		t.Error("Expected error for invalid token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret-a", testSubject(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Error("Expected signature error")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, _, err := GenerateToken("s", testSubject(), -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("s", token); err == nil {
		t.Error("Expected expired token to be rejected")
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	c := Claims{Sub: "x", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte("s"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("s", tok); err == nil {
		t.Error("Expected HS512 token to be rejected")
	}
}

func TestGenerateToken_UniqueJTIs(t *testing.T) {
	_, jti1, err1 := GenerateToken("s", testSubject(), time.Hour)
	_, jti2, err2 := GenerateToken("s", testSubject(), time.Hour)
	if err1 != nil || err2 != nil {
		t.Fatalf("Expected no errors, got %v, %v", err1, err2)
	}
	if jti1 == jti2 {
		t.Error("Expected unique JTIs for different tokens")
	}
}
