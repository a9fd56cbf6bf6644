// Package studypack turns uploaded course material into a four-section
// study pack (textbook, flashcards, question bank, exam) via a single
// completion call, and grades free-text exam answers in a second,
// independent pass.
package studypack

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/praachilabs/studypack/pkg/docpipe"
)

// Completer is the completion gateway contract: one prompt in, one opaque
// text response out. Transport, auth and quota failures surface as errors
// and are passed through untouched — no retry, no default text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service wires extraction, prompt composition, the completion gateway and
// response segmentation into the two user-facing operations. All state is
// request-scoped; the collaborators are stateless and shared.
type Service struct {
	pipe     *docpipe.Pipeline
	composer *Composer
	gateway  Completer
}

// NewService creates a Service from its collaborators.
func NewService(pipe *docpipe.Pipeline, composer *Composer, gateway Completer) *Service {
	return &Service{
		pipe:     pipe,
		composer: composer,
		gateway:  gateway,
	}
}

// Generate runs the full pipeline: extract every document, build the
// corpus, compose the generation prompt, call the gateway once, and
// segment the response. An empty document list fails before any gateway
// call; gateway errors surface unchanged.
func (s *Service) Generate(ctx context.Context, docs []docpipe.Document, subject, examInstructions string) (Pack, error) {
	corpus, err := s.pipe.BuildCorpus(ctx, docs)
	if err != nil {
		return Pack{}, err
	}

	prompt, err := s.composer.ComposeGeneration(GenerationRequest{
		Subject:          subject,
		ExamInstructions: examInstructions,
		Corpus:           corpus,
	})
	if err != nil {
		return Pack{}, fmt.Errorf("compose generation prompt: %w", err)
	}

	raw, err := s.gateway.Complete(ctx, prompt)
	if err != nil {
		return Pack{}, err
	}

	pack, missing := Segment(raw)
	if len(missing) > 0 {
		// Quality signal only; the degrade path already filled the
		// fields deterministically.
		log.Printf("studypack: segmentation degraded, markers missing: %s", strings.Join(missing, ", "))
	}
	return pack, nil
}

// Grade sends a previously generated exam and the learner's answers for
// feedback. Empty answers short-circuit with a fixed message and never
// reach the gateway. The response is returned unsegmented.
func (s *Service) Grade(ctx context.Context, examText, answers string) (string, error) {
	if strings.TrimSpace(answers) == "" {
		return AnswersMissingMessage, nil
	}

	prompt, err := s.composer.ComposeGrading(examText, answers)
	if err != nil {
		return "", fmt.Errorf("compose grading prompt: %w", err)
	}

	return s.gateway.Complete(ctx, prompt)
}
