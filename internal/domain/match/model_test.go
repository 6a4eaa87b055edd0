package match

import "testing"

func TestMatch_HasTeam(t *testing.T) {
	m := Match{Team1: Team{Name: "T1"}, Team2: Team{Name: "Bilibili Gaming"}}

	cases := []struct {
		name string
		want bool
	}{
		{name: "T1", want: true},
		{name: " bilibili gaming ", want: true},
		{name: "G2", want: false},
		{name: "", want: false},
	}
	for _, tc := range cases {
		if got := m.HasTeam(tc.name); got != tc.want {
			t.Fatalf("HasTeam(%q)=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestMatch_DisplayNamesFallsBackForMissingSlot(t *testing.T) {
	m := Match{Team1: Team{Name: "Fnatic"}}
	t1, t2 := m.DisplayNames()
	if t1 != "Fnatic" || t2 != UnknownTeamName {
		t.Fatalf("unexpected display names: %q %q", t1, t2)
	}
}

func TestParseGameType(t *testing.T) {
	if g, ok := ParseGameType(" LoL "); !ok || g != GameLoL {
		t.Fatalf("expected lol, got %q ok=%v", g, ok)
	}
	if _, ok := ParseGameType("dota2"); ok {
		t.Fatalf("expected dota2 to be unsupported")
	}
}
