package studypack

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// The heading tokens are a protocol contract between the prompt templates
// and the response segmenter: the generation prompt instructs the model to
// emit them, and Segment splits on them. Changing one side without the
// other breaks segmentation silently, which is why both live in this
// package.
const (
	TokenTextbook     = "PRAACHI-GUIDE TEXTBOOK"
	TokenFlashcards   = "FLASHCARDS"
	TokenQuestionBank = "QUESTION BANK"
	TokenExam         = "EXAM TEMPLATE"
)

// DefaultSubject is used when the caller supplies no subject name.
const DefaultSubject = "My Course"

// AnswersMissingMessage is returned by Grade when the learner submitted no
// answers; the completion service is never called in that case.
const AnswersMissingMessage = "Please paste your exam answers before submitting."

//go:embed prompts/*.prompt
var promptFS embed.FS

// PromptConfig holds metadata from the YAML frontmatter.
type PromptConfig struct {
	Model       string                 `yaml:"model"`
	Temperature float32                `yaml:"temperature"`
	Input       map[string]interface{} `yaml:"input"`
}

// Prompt represents a loaded prompt with config and template.
type Prompt struct {
	Config   PromptConfig
	Template *template.Template
}

// LoadPrompt reads a .prompt file from disk, parsing frontmatter and body.
func LoadPrompt(path string) (*Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	return parsePrompt(filepath.Base(path), data)
}

func parsePrompt(name string, data []byte) (*Prompt, error) {
	parts := strings.SplitN(string(data), "---", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid prompt format: missing frontmatter delimiters")
	}

	var config PromptConfig
	if err := yaml.Unmarshal([]byte(parts[1]), &config); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	tmpl, err := template.New(name).Parse(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template body: %w", err)
	}

	return &Prompt{
		Config:   config,
		Template: tmpl,
	}, nil
}

// Execute applies data to the template and returns the result string.
func (p *Prompt) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := p.Template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GenerationRequest carries the inputs of one study-pack generation.
// Immutable once built.
type GenerationRequest struct {
	Subject          string
	ExamInstructions string
	Corpus           string
}

// Composer builds the instruction strings sent to the completion gateway.
type Composer struct {
	generate *Prompt
	grade    *Prompt
}

// NewComposer loads the embedded prompt templates.
func NewComposer() (*Composer, error) {
	return newComposer(func(name string) (*Prompt, error) {
		data, err := promptFS.ReadFile("prompts/" + name)
		if err != nil {
			return nil, err
		}
		return parsePrompt(name, data)
	})
}

// NewComposerFromDir loads generate.prompt and grade.prompt from a
// directory, overriding the embedded defaults.
func NewComposerFromDir(dir string) (*Composer, error) {
	return newComposer(func(name string) (*Prompt, error) {
		return LoadPrompt(filepath.Join(dir, name))
	})
}

func newComposer(load func(name string) (*Prompt, error)) (*Composer, error) {
	gen, err := load("generate.prompt")
	if err != nil {
		return nil, fmt.Errorf("load generation prompt: %w", err)
	}
	grade, err := load("grade.prompt")
	if err != nil {
		return nil, fmt.Errorf("load grading prompt: %w", err)
	}
	return &Composer{generate: gen, grade: grade}, nil
}

// GenerationConfig exposes the frontmatter of the generation prompt so the
// caller can configure the completion gateway to match.
func (c *Composer) GenerationConfig() PromptConfig {
	return c.generate.Config
}

// ComposeGeneration builds the single instruction string for a generation
// request. An empty subject falls back to DefaultSubject; empty exam
// instructions are allowed and still yield a default exam section.
func (c *Composer) ComposeGeneration(req GenerationRequest) (string, error) {
	if strings.TrimSpace(req.Subject) == "" {
		req.Subject = DefaultSubject
	}
	return c.generate.Execute(req)
}

// ComposeGrading builds the instruction string for grading a learner's
// exam answers.
func (c *Composer) ComposeGrading(examText, answers string) (string, error) {
	return c.grade.Execute(struct {
		Exam    string
		Answers string
	}{Exam: examText, Answers: answers})
}
