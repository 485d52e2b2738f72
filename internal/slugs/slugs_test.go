package slugs

import "testing"

func TestComponentSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Freya", "freya"},
		{"My Awesome Project", "my-awesome-project"},
		{"UPPER CASE", "upper-case"},
		{"test.md", "test"},
		{"file-name", "file-name"},
		{"Special: Characters!", "special-characters"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ComponentSlug(tt.in); got != tt.want {
				t.Fatalf("ComponentSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPathSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"people/Freya", "people/freya"},
		{"projects/My Project/docs", "projects/my-project/docs"},
		{"file.md", "file"},
		{"path/to/file.md", "path/to/file"},
		{`game-notes\Competitions`, "game-notes/competitions"},
		{"/leading//double/", "leading/double"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := PathSlug(tt.in); got != tt.want {
				t.Fatalf("PathSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
