package assets

import "testing"

func TestStripQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://0.0.0.0/counter?x=1", "https://0.0.0.0/counter"},
		{"https://0.0.0.0/counter", "https://0.0.0.0/counter"},
		{"https://0.0.0.0/a?b=c?d=e", "https://0.0.0.0/a"},
		{"?leading", ""},
		{"", ""},
		{"relative/path?q", "relative/path"},
	}
	for _, tt := range tests {
		if got := StripQuery(tt.in); got != tt.want {
			t.Fatalf("StripQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOrigin(t *testing.T) {
	good := []string{
		"https://0.0.0.0/",
		"https://0.0.0.0",
		"http://localhost:8080",
		"https://app.internal:443/",
	}
	for _, in := range good {
		if _, err := ParseOrigin(in); err != nil {
			t.Fatalf("ParseOrigin(%q) failed: %v", in, err)
		}
	}

	bad := []string{
		"",
		"ftp://0.0.0.0/",
		"https:///nohost",
		"https://0.0.0.0/path",
		"https://0.0.0.0/?q=1",
		"0.0.0.0",
	}
	for _, in := range bad {
		if _, err := ParseOrigin(in); err == nil {
			t.Fatalf("ParseOrigin(%q) unexpectedly succeeded", in)
		}
	}
}

func TestOrigin_Contains(t *testing.T) {
	origin, err := ParseOrigin(DefaultVirtualHost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		uri  string
		want bool
	}{
		{"https://0.0.0.0/", true},
		{"https://0.0.0.0", true},
		{"https://0.0.0.0/counter?x=1", true},
		{"https://0.0.0.0:443/css/app.css", true},
		{"HTTPS://0.0.0.0/upper", true},
		{"http://0.0.0.0/", false},
		{"https://example.com/", false},
		{"https://0.0.0.1/", false},
		{"/relative", false},
		{"not a uri", false},
	}
	for _, tt := range tests {
		if got := origin.Contains(tt.uri); got != tt.want {
			t.Fatalf("Contains(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestOrigin_RelativePath(t *testing.T) {
	origin, err := ParseOrigin(DefaultVirtualHost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		uri  string
		want string
	}{
		{"https://0.0.0.0/", ""},
		{"https://0.0.0.0", ""},
		{"https://0.0.0.0/counter", "counter"},
		{"https://0.0.0.0/css/app.css", "css/app.css"},
		{"https://0.0.0.0/my%20file.txt", "my file.txt"},
	}
	for _, tt := range tests {
		got, ok := origin.RelativePath(tt.uri)
		if !ok {
			t.Fatalf("RelativePath(%q) reported out of origin", tt.uri)
		}
		if got != tt.want {
			t.Fatalf("RelativePath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}

	if _, ok := origin.RelativePath("https://elsewhere/x"); ok {
		t.Fatal("out-of-origin URI reported as in origin")
	}
}

func TestOrigin_Resolve(t *testing.T) {
	origin, err := ParseOrigin(DefaultVirtualHost)
	if err != nil {
		t.Fatal(err)
	}
	if got := origin.Resolve("/settings"); got != "https://0.0.0.0/settings" {
		t.Fatalf("Resolve(/settings) = %q", got)
	}
	if got := origin.Resolve("settings"); got != "https://0.0.0.0/settings" {
		t.Fatalf("Resolve(settings) = %q", got)
	}
	if got := origin.Resolve(""); got != "https://0.0.0.0/" {
		t.Fatalf("Resolve() = %q", got)
	}
}

func TestCleanRequestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", "", true},
		{"counter", "counter", true},
		{"css/app.css", "css/app.css", true},
		{"a//b", "a/b", true},
		{"a/./b", "a/b", true},
		{"a/../b", "b", true},
		{"../../../etc/passwd", "etc/passwd", true},
		{"sub\\file.txt", "sub/file.txt", true},
		{"..\\..\\secret.txt", "secret.txt", true},
		{"c:\\windows\\system32", "", false},
		{"bad\x00name", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanRequestPath(tt.in)
		if ok != tt.ok {
			t.Fatalf("CleanRequestPath(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("CleanRequestPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
