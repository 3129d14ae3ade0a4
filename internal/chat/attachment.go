package chat

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageOnlyPlaceholder replaces the text body when a message carries an
// attachment and nothing else.
const ImageOnlyPlaceholder = "Analizza questa immagine"

var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ExtractImageAttachment scans the input for a path to an existing image
// file. When one is found it is loaded, encoded as a data URL and removed
// from the text; an empty remaining text becomes the fixed placeholder.
func ExtractImageAttachment(input string) (text, dataURL string, err error) {
	for _, token := range strings.Fields(input) {
		mime, ok := imageMIMETypes[strings.ToLower(filepath.Ext(token))]
		if !ok {
			continue
		}
		info, statErr := os.Stat(token)
		if statErr != nil || info.IsDir() {
			continue
		}

		data, readErr := os.ReadFile(token)
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read image %s: %w", token, readErr)
		}

		text = strings.TrimSpace(strings.Replace(input, token, "", 1))
		if text == "" {
			text = ImageOnlyPlaceholder
		}
		dataURL = fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
		return text, dataURL, nil
	}

	return strings.TrimSpace(input), "", nil
}
