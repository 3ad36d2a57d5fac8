package transcript

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{
			name:   "watch url",
			url:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:   "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "watch url with extra params",
			url:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want:   "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "short url",
			url:    "https://youtu.be/dQw4w9WgXcQ",
			want:   "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "embed url",
			url:    "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:   "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "legacy v url",
			url:    "https://www.youtube.com/v/dQw4w9WgXcQ",
			want:   "dQw4w9WgXcQ",
			wantOK: true,
		},
		{
			name:   "not a youtube url",
			url:    "https://vimeo.com/12345",
			wantOK: false,
		},
		{
			name:   "empty",
			url:    "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ExtractVideoID(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
