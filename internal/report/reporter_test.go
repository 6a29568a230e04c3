package report

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"text", "text", false},
		{"TEXT", "text", false},
		{"json", "json", false},
		{"Json", "json", false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := New(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) returned nil error", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", tt.format, err)
			}
			if r.Format() != tt.want {
				t.Errorf("Format() = %q, want %q", r.Format(), tt.want)
			}
		})
	}
}
