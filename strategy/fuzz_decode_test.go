package strategy

import "testing"

// FuzzJWTDecode feeds arbitrary credentials to the structured resolver.
// Invalid inputs must fail with an error, never panic.
func FuzzJWTDecode(f *testing.F) {
	f.Add(fixtureToken())
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("a.b")
	f.Add("....")
	f.Add(fixtureHeader + ".e30.")

	r := newJWTResolver()
	f.Fuzz(func(t *testing.T, input string) {
		claims, err := r.Decode(input)
		if err != nil {
			return
		}
		if claims == nil {
			t.Fatal("Decode returned nil claims without error")
		}
	})
}
