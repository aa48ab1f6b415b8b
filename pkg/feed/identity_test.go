package feed

import "testing"

func TestKeyExcludesSenderAndTimestamp(t *testing.T) {
	a := msg("a", "s1", "x", "2020-01-01T00:00:00Z")
	b := msg("a", "s2", "x", "2020-01-02T00:00:00Z")
	if KeyOf(a) != KeyOf(b) {
		t.Fatalf("sender/timestamp leaked into identity: %+v != %+v", KeyOf(a), KeyOf(b))
	}

	c := msg("a", "s1", "y", "2020-01-01T00:00:00Z")
	if KeyOf(a) == KeyOf(c) {
		t.Fatalf("content ignored by identity: %+v == %+v", KeyOf(a), KeyOf(c))
	}
	d := msg("b", "s1", "x", "2020-01-01T00:00:00Z")
	if KeyOf(a) == KeyOf(d) {
		t.Fatalf("id ignored by identity: %+v == %+v", KeyOf(a), KeyOf(d))
	}
}
