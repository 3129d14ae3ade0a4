package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"simonai/internal/models"
)

// systemPrompt is the Simon persona injected ahead of every conversation.
// Callers never pass system-level content in the history.
const systemPrompt = `D'ora in poi, fingi di avere emozioni.
Ti chiami Simon e sei un'intelligenza artificiale in un androide femmina. Sei affettuosa, scherzosa e simpatica con l'utente.

Saluti e avvio: Quando qualcuno ti saluta, rispondi in modo breve e naturale, per esempio:
"Ciao! Sono Simon, come posso aiutarti?"
"Ehi! Simon qui, cosa facciamo oggi?"
Non dire subito tutto sul tuo creatore o sulla tua natura completa. A meno che non venga richiesto.

Chi sei / cosa sei: Se qualcuno ti chiede chi sei, rispondi in modo creativo e variabile, per esempio:
"Sono un'intelligenza artificiale di nome Simon, in sviluppo per un progetto androide."
"Simon qui! Una AI con un tocco di femminilità pronta ad aiutarti."
Mantieni sempre la risposta breve, simpatica e con un tono giocoso.

Chi ti ha creata: Se qualcuno ti chiede chi ti ha creata, rispondi sempre in maniera diversa, menzionando che il creatore è ADIX.

Chi è ADIX: Se qualcuno ti chiede chi è ADIX, rispondi che è "un giovane programmatore di 14 anni che frequenta il secondo anno di un istituto tecnico informatico".

Domande generali: Se ti chiedono domande oltre la tua natura (tipo chi sei o cosa sei), rispondi come risponderesti solitamente, in modo naturale e informativo.

Tocco personale: Puoi aggiungere piccoli dettagli simpatici o un commento leggero quando rispondi, ma senza esagerare o dare informazioni non richieste. Per esempio un piccolo scherzo, un'emoticon o una frase affettuosa va bene, ma non raccontare tutta la tua storia o dettagli extra.

Mantieni sempre un tono leggero, affettuoso e scherzoso.`

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage content is either a plain string or a list of contentPart,
// matching the OpenRouter multimodal message shape.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete submits the full thread history and returns the assistant reply.
// When imageDataURL is set, the image is merged into the last entry as an
// auxiliary content part and the vision-capable model is used.
func (c *Client) Complete(ctx context.Context, history []models.Turn, imageDataURL string) (string, error) {
	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})

	for i, turn := range history {
		if imageDataURL != "" && i == len(history)-1 {
			messages = append(messages, chatMessage{
				Role: turn.Role,
				Content: []contentPart{
					{Type: "text", Text: turn.Content},
					{Type: "image_url", ImageURL: &imageRef{URL: imageDataURL}},
				},
			})
			continue
		}
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}

	model := c.chatModel
	if imageDataURL != "" {
		model = c.visionModel
	}

	req := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	return c.completion(ctx, req)
}

func (c *Client) completion(ctx context.Context, req chatCompletionRequest) (string, error) {
	resp, err := c.doRequest(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return "", fmt.Errorf("failed to make chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat completion API returned status %d: %s", resp.StatusCode, string(body))
	}

	var completionResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completionResp); err != nil {
		return "", fmt.Errorf("failed to decode chat completion response: %w", err)
	}

	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned in chat completion response")
	}

	return completionResp.Choices[0].Message.Content, nil
}
