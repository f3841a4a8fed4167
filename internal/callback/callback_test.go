package callback

import "testing"

func TestDecode(t *testing.T) {
	cases := []struct {
		in    string
		ok    bool
		scope string
		verb  string
		nargs int
	}{
		{"pvp:round:abc:3", true, "pvp", "round", 2},
		{"pen:kick:g1:left", true, "pen", "kick", 2},
		{"pvp:accept", true, "pvp", "accept", 0},
		{"pvp", false, "", "", 0},
		{":x", false, "", "", 0},
		{"", false, "", "", 0},
	}
	for _, c := range cases {
		p, ok := Decode(c.in)
		if ok != c.ok {
			t.Fatalf("%q: ok=%v", c.in, ok)
		}
		if !ok {
			continue
		}
		if p.Scope != c.scope || p.Verb != c.verb || len(p.Args) != c.nargs {
			t.Fatalf("%q: got %+v", c.in, p)
		}
	}
}

func TestIntArg(t *testing.T) {
	p, _ := Decode(Encode("pvp", "round", "m1", "4"))
	if n, ok := p.IntArg(1); !ok || n != 4 {
		t.Fatalf("got %d %v", n, ok)
	}
	if _, ok := p.IntArg(0); ok {
		t.Fatal("non-numeric arg parsed")
	}
	if p.Arg(7) != "" {
		t.Fatal("out of range arg not empty")
	}
}
