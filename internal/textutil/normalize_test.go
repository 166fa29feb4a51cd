package textutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n\r  ", ""},
		{"collapses runs", "Senior   Backend\t\tEngineer", "Senior Backend Engineer"},
		{"trims edges", "  hello world  ", "hello world"},
		{"newlines become spaces", "line one\nline two\r\nline three", "line one line two line three"},
		{"drops control chars", "ab\x00c\x1bd", "abcd"},
		{"keeps punctuation", "Python, Go & Kubernetes (5+ yrs)!", "Python, Go & Kubernetes (5+ yrs)!"},
		{"keeps unicode text", "café  résumé", "café résumé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "  A \x07 messy\n\npage\ttext  "
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent: %q -> %q", once, twice)
	}
}
