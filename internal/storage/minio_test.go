package storage

import "testing"

func TestStaticKey(t *testing.T) {
	t.Parallel()

	for p, want := range map[string]string{
		"index.html":           "static/index.html",
		"docs/index.html":      "static/docs/index.html",
		"style.css":            "static/style.css",
		"a/./b.css":            "static/a/b.css",
		"templates/user.html":  "static/templates/user.html",
		"a/../b.css":           "static/b.css",
		"users/../../etc/x":    "",
		"../users/bob/v/p.jpg": "",
		"..":                   "",
		"../..":                "",
	} {
		key, ok := staticKey(p)
		if want == "" {
			if ok {
				t.Errorf("staticKey(%q) = %q, want rejection", p, key)
			}
			continue
		}
		if !ok || key != want {
			t.Errorf("staticKey(%q) = %q %v, want %q", p, key, ok, want)
		}
	}
}
