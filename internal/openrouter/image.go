package openrouter

import (
	"context"
	"fmt"
	"regexp"
)

var imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s)]+\.(jpg|jpeg|png|gif|webp)`)

// GenerateImage asks the image model for a picture of the given subject and
// returns the hosted image URL found in the reply.
func (c *Client) GenerateImage(ctx context.Context, subject string) (string, error) {
	req := chatCompletionRequest{
		Model: c.imageModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: "Generate an image: " + subject},
				},
			},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	content, err := c.completion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}

	return extractImageURL(content)
}

func extractImageURL(content string) (string, error) {
	if match := imageURLPattern.FindString(content); match != "" {
		return match, nil
	}
	return "", fmt.Errorf("no image URL found in response")
}
