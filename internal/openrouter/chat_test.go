package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"simonai/internal/models"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]interface{})) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		handler(w, body)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	return srv, client
}

func replyWith(w http.ResponseWriter, content string) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestCompleteInjectsSystemPrompt(t *testing.T) {
	var got map[string]interface{}
	_, client := newTestServer(t, func(w http.ResponseWriter, body map[string]interface{}) {
		got = body
		replyWith(w, "ciao!")
	})

	reply, err := client.Complete(context.Background(), []models.Turn{
		{Role: "user", Content: "ciao"},
	}, "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "ciao!" {
		t.Errorf("reply = %q, want %q", reply, "ciao!")
	}

	msgs := got["messages"].([]interface{})
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want 2 (system + user)", len(msgs))
	}
	first := msgs[0].(map[string]interface{})
	if first["role"] != "system" {
		t.Errorf("first message role = %v, want system", first["role"])
	}
	if got["model"] != "openai/gpt-3.5-turbo" {
		t.Errorf("model = %v, want the text model", got["model"])
	}
}

func TestCompleteMergesImageIntoLastMessage(t *testing.T) {
	var got map[string]interface{}
	_, client := newTestServer(t, func(w http.ResponseWriter, body map[string]interface{}) {
		got = body
		replyWith(w, "vedo un gatto")
	})

	history := []models.Turn{
		{Role: "user", Content: "ciao"},
		{Role: "assistant", Content: "ciao!"},
		{Role: "user", Content: "cosa vedi?"},
	}
	if _, err := client.Complete(context.Background(), history, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if got["model"] != "openai/gpt-4o-mini" {
		t.Errorf("model = %v, want the vision model", got["model"])
	}

	msgs := got["messages"].([]interface{})
	if len(msgs) != 4 {
		t.Fatalf("sent %d messages, want 4", len(msgs))
	}
	// Intermediate messages stay plain strings.
	if _, ok := msgs[1].(map[string]interface{})["content"].(string); !ok {
		t.Error("intermediate message content is not a plain string")
	}
	last := msgs[3].(map[string]interface{})
	parts, ok := last["content"].([]interface{})
	if !ok {
		t.Fatalf("last message content is %T, want part list", last["content"])
	}
	if len(parts) != 2 {
		t.Fatalf("last message has %d parts, want 2", len(parts))
	}
	text := parts[0].(map[string]interface{})
	if text["type"] != "text" || text["text"] != "cosa vedi?" {
		t.Errorf("text part = %v", text)
	}
	img := parts[1].(map[string]interface{})
	if img["type"] != "image_url" {
		t.Errorf("image part type = %v", img["type"])
	}
	ref := img["image_url"].(map[string]interface{})
	if ref["url"] != "data:image/png;base64,AAAA" {
		t.Errorf("image url = %v", ref["url"])
	}
}

func TestCompleteErrorStatuses(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, body map[string]interface{}) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	if _, err := client.Complete(context.Background(), []models.Turn{{Role: "user", Content: "ciao"}}, ""); err == nil {
		t.Fatal("Complete did not fail on non-success status")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, body map[string]interface{}) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	if _, err := client.Complete(context.Background(), []models.Turn{{Role: "user", Content: "ciao"}}, ""); err == nil {
		t.Fatal("Complete did not fail on empty choices")
	}
}

func TestGenerateImage(t *testing.T) {
	var got map[string]interface{}
	_, client := newTestServer(t, func(w http.ResponseWriter, body map[string]interface{}) {
		got = body
		replyWith(w, "Here it is: ![cat](https://img.example/cats/123.png) enjoy!")
	})

	url, err := client.GenerateImage(context.Background(), "gatto")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if url != "https://img.example/cats/123.png" {
		t.Errorf("url = %q", url)
	}
	if got["model"] != "black-forest-labs/flux-1.1-pro" {
		t.Errorf("model = %v, want the image model", got["model"])
	}
}

func TestGenerateImageNoURL(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, body map[string]interface{}) {
		replyWith(w, "sorry, I cannot do that")
	})

	if _, err := client.GenerateImage(context.Background(), "gatto"); err == nil {
		t.Fatal("GenerateImage did not fail when no URL was present")
	}
}

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"Bare URL", "https://cdn.example/a.jpg", "https://cdn.example/a.jpg", false},
		{"URL inside markdown", "look ![x](https://cdn.example/b.webp)", "https://cdn.example/b.webp", false},
		{"Uppercase extension", "HTTPS://CDN.EXAMPLE/C.PNG", "HTTPS://CDN.EXAMPLE/C.PNG", false},
		{"No URL", "nothing here", "", true},
		{"URL without image extension", "see https://example.com/page", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractImageURL(tt.content)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
