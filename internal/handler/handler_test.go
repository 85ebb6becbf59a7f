package handler

import "testing"

func TestLocalPath(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"/movies/1?x=1", "/movies/1?x=1", true},
		{"/", "/", true},
		{`/\evil.example`, "", false},
		{`/movies\..\x`, "", false},
		{"//evil.example", "", false},
		{"https://evil.example/", "", false},
		{"movies/1", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := localPath(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Errorf("localPath(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSafeRedirectFallsBackHome(t *testing.T) {
	if got := safeRedirect(`/\evil.example`); got != "/" {
		t.Errorf("safeRedirect = %q, want /", got)
	}
	if got := safeRedirect("/watchlist"); got != "/watchlist" {
		t.Errorf("safeRedirect = %q, want /watchlist", got)
	}
}
