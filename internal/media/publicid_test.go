package media

import "testing"

func TestExtractPublicID(t *testing.T) {
	cases := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://cdn.example.com/demo/image/upload/v1234/pantree/alice/abc123.jpg", "pantree/alice/abc123", true},
		{"http://localhost:8080/media/upload/v1/pantree/bob/xyz.png", "pantree/bob/xyz", true},
		{"https://cdn.example.com/upload/v99/folder/sub/name.webp?w=400", "folder/sub/name", true},
		{"https://cdn.example.com/upload/v1/plain", "plain", true},
		{"https://cdn.example.com/images/v1/abc.jpg", "", false},
		{"https://cdn.example.com/upload/notaversion/abc.jpg", "", false},
		{"https://cdn.example.com/upload/v1/", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := ExtractPublicID(c.url)
		if ok != c.ok {
			t.Fatalf("%q: expected ok=%v, got %v", c.url, c.ok, ok)
		}
		if got != c.want {
			t.Fatalf("%q: expected %q, got %q", c.url, c.want, got)
		}
	}
}

func TestExtensionForType(t *testing.T) {
	if got := extensionForType("image/jpeg"); got != ".jpg" {
		t.Fatalf("expected .jpg, got %s", got)
	}
	if got := extensionForType("IMAGE/PNG"); got != ".png" {
		t.Fatalf("expected .png, got %s", got)
	}
	if got := extensionForType("application/octet-stream"); got != ".bin" {
		t.Fatalf("expected .bin fallback, got %s", got)
	}
}

func TestValidPublicID(t *testing.T) {
	for _, id := range []string{"pantree/alice/abc", "plain", "a/b/c"} {
		if !validPublicID(id) {
			t.Fatalf("expected %q to be valid", id)
		}
	}
	for _, id := range []string{"", "../etc/passwd", "/abs/path", "a/../b"} {
		if validPublicID(id) {
			t.Fatalf("expected %q to be rejected", id)
		}
	}
}
