package chat

import (
	"regexp"
	"strings"
)

// Classifier decides whether a user message asks for image generation and,
// if so, extracts the bare subject to generate. The routing decision is a
// strategy so the UI and tests can swap it out.
type Classifier interface {
	IsImageRequest(content string) bool
	Subject(content string) string
}

// KeywordClassifier matches a fixed set of Italian trigger phrases and
// strips them off to leave the subject.
type KeywordClassifier struct {
	triggers []string
	strip    []*regexp.Regexp
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		triggers: []string{
			"crea un", "crea una",
			"genera un", "genera una",
			"crea immagine", "genera immagine",
			"disegna",
			"fai un disegno", "fai una foto",
		},
		strip: []*regexp.Regexp{
			regexp.MustCompile(`(?i)crea (un|una|immagine)?\s*`),
			regexp.MustCompile(`(?i)genera (un|una|immagine)?\s*`),
			regexp.MustCompile(`(?i)disegna\s*`),
			regexp.MustCompile(`(?i)fai un disegno (di|con)?\s*`),
			regexp.MustCompile(`(?i)fai una foto (di|con)?\s*`),
		},
	}
}

func (c *KeywordClassifier) IsImageRequest(content string) bool {
	lowered := strings.ToLower(content)
	for _, trigger := range c.triggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}

func (c *KeywordClassifier) Subject(content string) string {
	subject := strings.ToLower(content)
	for _, re := range c.strip {
		subject = re.ReplaceAllString(subject, "")
	}
	return strings.TrimSpace(subject)
}
