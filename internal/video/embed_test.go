package video

import "testing"

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"watch with extra params", "https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ&t=42", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"already embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"vimeo", "https://vimeo.com/12345", "https://player.vimeo.com/video/12345"},
		{"vimeo player", "https://player.vimeo.com/video/76979871", "https://player.vimeo.com/video/76979871"},
		{"unknown host", "https://example.com/clip.mp4", "https://example.com/clip.mp4"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmbedURL(tt.in); got != tt.want {
				t.Fatalf("EmbedURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatchReportsAbsence(t *testing.T) {
	if _, ok := Match("https://example.com/watch?v=short"); ok {
		t.Fatal("expected no match for an id shorter than 11 characters")
	}
	if _, ok := Match("   "); ok {
		t.Fatal("expected no match for blank input")
	}
}
