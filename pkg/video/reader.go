package video

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/llm"
)

// prompt for the multimodal pass over the video itself
const readPrompt = `Watch this video and provide a detailed description of its content.
Include:
- Main topics and themes covered
- Key points and arguments made
- Style and tone of presentation
- Target audience
- Any notable quotes or moments

Provide a thorough transcript-like description that captures the essence of the video.`

// Reader produces a transcript-like text description of a video using a
// multimodal model that can consume the video by URL.
type Reader struct {
	client *genai.Client
	config config.VideoConfig
}

// NewReader creates a reader backed by the Gemini API
func NewReader(ctx context.Context, cfg config.VideoConfig) (*Reader, error) {
	return newReaderWithBase(ctx, cfg, "")
}

// newReaderWithBase allows tests to point the client at a local server
func newReaderWithBase(ctx context.Context, cfg config.VideoConfig, baseURL string) (*Reader, error) {
	clientConfig := &genai.ClientConfig{APIKey: cfg.APIKey}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Reader{client: client, config: cfg}, nil
}

// Read watches the video at the given URL and returns its text description.
// An empty model response is an error, every downstream generation step
// depends on this content.
func (r *Reader) Read(ctx context.Context, videoURL string) (string, error) {
	if videoURL == "" {
		return "", fmt.Errorf("video url is required")
	}

	opts := llm.RetryOptions{
		Retries: r.config.Retries,
		Delay:   r.config.RetryDelay,
	}

	return llm.WithRetry(ctx, opts, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()

		parts := []*genai.Part{
			genai.NewPartFromText(readPrompt),
			genai.NewPartFromURI(videoURL, "video/mp4"),
		}
		contents := []*genai.Content{
			genai.NewContentFromParts(parts, genai.RoleUser),
		}

		result, err := r.client.Models.GenerateContent(ctx, r.config.Model, contents, nil)
		if err != nil {
			return "", fmt.Errorf("video read failed: %w", err)
		}

		text := result.Text()
		if text == "" {
			return "", fmt.Errorf("empty response from video reading")
		}
		return text, nil
	})
}
