package strategy

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

const (
	fixtureHeader    = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"
	fixturePayload   = "eyJuYW1lIjoiUGF0cmljayBQb3J0byJ9"
	fixtureSignature = "UoOFQCTrjryDTvl4XeWymslGknL-9-Me8enyf_DC98M"
)

func fixtureToken() string {
	return strings.Join([]string{fixtureHeader, fixturePayload, fixtureSignature}, ".")
}

func mustResolver(t *testing.T, name Name) Resolver {
	t.Helper()
	r, err := New(name)
	if err != nil {
		t.Fatalf("new resolver %q: %v", name, err)
	}
	return r
}

func TestParse(t *testing.T) {
	cases := map[string]Name{
		"":       Plain,
		"plain":  Plain,
		" JWT ":  JWT,
		"jwt":    JWT,
		"Plain ": Plain,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", in, want, got)
		}
	}

	if _, err := Parse("paseto"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
	if _, err := New(Name("paseto")); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy from New, got %v", err)
	}
}

func TestPlainNeverDerivesIdentity(t *testing.T) {
	r := mustResolver(t, Plain)
	if r.Name() != Plain {
		t.Fatalf("expected plain, got %q", r.Name())
	}
	for _, credential := range []string{"", "TOKEN123", fixtureToken()} {
		claims, err := r.Decode(credential)
		if err != nil {
			t.Fatalf("plain decode %q: %v", credential, err)
		}
		if claims != nil {
			t.Fatalf("plain decode %q: expected nil claims, got %v", credential, claims)
		}
	}
}

func TestJWTDecodesPayloadSegment(t *testing.T) {
	r := mustResolver(t, JWT)
	claims, err := r.Decode(fixtureToken())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims["name"] != "Patrick Porto" {
		t.Fatalf("expected name Patrick Porto, got %v", claims["name"])
	}
}

func TestJWTAcceptsTwoSegments(t *testing.T) {
	r := mustResolver(t, JWT)
	claims, err := r.Decode(fixtureHeader + "." + fixturePayload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims["name"] != "Patrick Porto" {
		t.Fatalf("unexpected claims %v", claims)
	}
}

func TestJWTToleratesPaddingAndURLAlphabet(t *testing.T) {
	r := mustResolver(t, JWT)

	// Encodes with a '_' in the URL alphabet and needs one padding byte.
	payload := []byte(`{"q":"?>?","n":1}`)
	padded := base64.URLEncoding.EncodeToString(payload)
	unpadded := base64.RawURLEncoding.EncodeToString(payload)
	if padded == unpadded {
		t.Fatal("fixture should require padding")
	}

	for _, seg := range []string{padded, unpadded} {
		claims, err := r.Decode(fixtureHeader + "." + seg + "." + fixtureSignature)
		if err != nil {
			t.Fatalf("decode segment %q: %v", seg, err)
		}
		if claims["q"] != "?>?" {
			t.Fatalf("unexpected claims %v", claims)
		}
	}
}

func TestJWTDecodesSignedToken(t *testing.T) {
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"name": "Patrick Porto",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret-test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := mustResolver(t, JWT).Decode(signed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims["name"] != "Patrick Porto" {
		t.Fatalf("unexpected claims %v", claims)
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Fatalf("expected numeric exp, got %T", claims["exp"])
	}
}

func TestJWTRejectsMalformed(t *testing.T) {
	r := mustResolver(t, JWT)
	cases := map[string]string{
		"opaque":         "TOKEN123",
		"empty":          "",
		"empty payload":  fixtureHeader + "..sig",
		"not base64":     fixtureHeader + ".@@@@.sig",
		"not json":       fixtureHeader + "." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".sig",
		"json array":     fixtureHeader + "." + base64.RawURLEncoding.EncodeToString([]byte(`["a"]`)) + ".sig",
		"json null":      fixtureHeader + "." + base64.RawURLEncoding.EncodeToString([]byte(`null`)) + ".sig",
		"json string":    fixtureHeader + "." + base64.RawURLEncoding.EncodeToString([]byte(`"x"`)) + ".sig",
		"truncated json": fixtureHeader + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"name":`)) + ".sig",
	}
	for name, credential := range cases {
		claims, err := r.Decode(credential)
		if !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("%s: expected ErrMalformedToken, got %v", name, err)
		}
		if claims != nil {
			t.Fatalf("%s: expected nil claims, got %v", name, claims)
		}
	}
}

func TestJWTIgnoresHeaderAndSignature(t *testing.T) {
	r := mustResolver(t, JWT)
	claims, err := r.Decode("not-a-header." + fixturePayload + ".not-a-signature")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims["name"] != "Patrick Porto" {
		t.Fatalf("unexpected claims %v", claims)
	}
}
