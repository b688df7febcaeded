package analyzer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/llm"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/reader.go -pkg mocks -skip-ensure -fmt goimports . VideoReader

// Generator produces text completions for a named generation task
type Generator interface {
	Generate(ctx context.Context, task, prompt string) (string, error)
}

// VideoReader produces a text description of a video from its URL
type VideoReader interface {
	Read(ctx context.Context, videoURL string) (string, error)
}

// Analyzer runs the full per-video generation pipeline: one multimodal read,
// four parallel text generations over the resulting content, then a dependent
// reasoning call that needs the scores and verdict.
type Analyzer struct {
	reader VideoReader
	gen    Generator
}

// New creates an analyzer from a video reader and a text generator
func New(reader VideoReader, gen Generator) *Analyzer {
	return &Analyzer{reader: reader, gen: gen}
}

// Request carries the personalization inputs for one analysis run
type Request struct {
	VideoURL string
	AboutMe  string
	Memories []domain.MemoryEntry
}

// analysisResult mirrors the scoring response payload
type analysisResult struct {
	Scores              domain.ContentScores `json:"scores"`
	Verdict             domain.Verdict       `json:"verdict"`
	MatchesInterests    *bool                `json:"matchesInterests"`
	EnjoymentConfidence *int                 `json:"enjoymentConfidence"`
}

// Analyze runs the pipeline for one video. The video read is fatal on
// failure, everything downstream depends on its content. The parallel text
// steps degrade to safe fallbacks on malformed model output but fail the run
// on transport errors.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*domain.VideoAnalysis, error) {
	content, err := a.reader.Read(ctx, req.VideoURL)
	if err != nil {
		return nil, fmt.Errorf("read video content: %w", err)
	}

	var (
		summary   string
		tags      []string
		analysis  analysisResult
		keyPoints []domain.KeyPoint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := a.gen.Generate(gctx, config.TaskSummarization, buildSummaryPrompt(content))
		if err != nil {
			return fmt.Errorf("generate summary: %w", err)
		}
		summary = strings.TrimSpace(text)
		if summary == "" {
			summary = "Unable to generate summary."
		}
		return nil
	})

	g.Go(func() error {
		text, err := a.gen.Generate(gctx, config.TaskTagGeneration, buildTagsPrompt(content))
		if err != nil {
			return fmt.Errorf("generate tags: %w", err)
		}
		tags = llm.ParseOr(text, []string{"untagged"})
		if len(tags) == 0 {
			tags = []string{"untagged"}
		}
		return nil
	})

	g.Go(func() error {
		text, err := a.gen.Generate(gctx, config.TaskContentAnalysis, buildAnalysisPrompt(content, req.AboutMe, req.Memories))
		if err != nil {
			return fmt.Errorf("analyze content: %w", err)
		}
		analysis = llm.ParseOr(text, analysisResult{Verdict: domain.VerdictSkip})
		return nil
	})

	g.Go(func() error {
		text, err := a.gen.Generate(gctx, config.TaskSummarization, buildKeyPointsPrompt(content))
		if err != nil {
			return fmt.Errorf("extract key points: %w", err)
		}
		keyPoints = llm.ParseOr(text, []domain.KeyPoint{})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis.Scores.EnjoymentConf = analysis.EnjoymentConfidence
	analysis.Scores.Clamp()

	// the verdict is recomputed from the scores so it always follows the
	// published rules regardless of what the model answered
	verdict := domain.DeriveVerdict(analysis.Scores)

	reasonText, err := a.gen.Generate(ctx, config.TaskReasoning,
		buildReasonPrompt(content, analysis.Scores, verdict, req.AboutMe, req.Memories))
	if err != nil {
		return nil, fmt.Errorf("generate reason: %w", err)
	}
	reason := strings.TrimSpace(reasonText)
	if reason == "" {
		reason = "Unable to generate recommendation reason."
	}

	domain.SortKeyPoints(keyPoints)
	if len(keyPoints) == 0 {
		keyPoints = nil
	}

	return &domain.VideoAnalysis{
		Summary:          summary,
		Reason:           reason,
		Tags:             tags,
		Scores:           analysis.Scores,
		Verdict:          verdict,
		MatchesInterests: analysis.MatchesInterests,
		KeyPoints:        keyPoints,
	}, nil
}
