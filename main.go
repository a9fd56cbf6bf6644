package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/praachilabs/studypack/pkg/docpipe"
	"github.com/praachilabs/studypack/pkg/mcp"
	"github.com/praachilabs/studypack/pkg/server"
	"github.com/praachilabs/studypack/pkg/service/ai"
	"github.com/praachilabs/studypack/pkg/studypack"
)

var (
	flagSubject          string
	flagExamInstructions string
	flagExamFile         string
	flagAnswersFile      string
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "studypack",
		Short: "Turn course documents into a textbook, flashcards, a question bank and an exam",
	}

	generateCmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate a study pack from course documents",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&flagSubject, "subject", "", "subject name (defaults to a placeholder)")
	generateCmd.Flags().StringVar(&flagExamInstructions, "exam-instructions", "", "optional instructions for the exam section")

	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade exam answers against a generated exam",
		RunE:  runGrade,
	}
	gradeCmd.Flags().StringVar(&flagExamFile, "exam", "", "path to the exam text")
	gradeCmd.Flags().StringVar(&flagAnswersFile, "answers", "", "path to the learner's answers")
	gradeCmd.MarkFlagRequired("exam")
	gradeCmd.MarkFlagRequired("answers")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE:  runServe,
	}

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on Stdio",
		RunE:  runMCP,
	}

	root.AddCommand(generateCmd, gradeCmd, serveCmd, mcpCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService wires the pipeline, composer and Gemini gateway.
func newService(ctx context.Context) (*studypack.Service, *docpipe.Pipeline, *ai.GeminiService, error) {
	var composer *studypack.Composer
	var err error
	if dir := os.Getenv("STUDYPACK_PROMPT_DIR"); dir != "" {
		composer, err = studypack.NewComposerFromDir(dir)
	} else {
		composer, err = studypack.NewComposer()
	}
	if err != nil {
		return nil, nil, nil, err
	}

	cfg := composer.GenerationConfig()
	gateway, err := ai.NewGeminiService(ctx, "", cfg.Model, cfg.Temperature)
	if err != nil {
		return nil, nil, nil, err
	}

	pipe := docpipe.New(docpipe.Config{})
	return studypack.NewService(pipe, composer, gateway), pipe, gateway, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, _, gateway, err := newService(ctx)
	if err != nil {
		return err
	}
	defer gateway.Close()

	docs := make([]docpipe.Document, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, docpipe.Document{Name: path, Data: data})
	}

	pack, err := svc.Generate(ctx, docs, flagSubject, flagExamInstructions)
	if err != nil {
		return err
	}

	sections := []struct {
		title string
		body  string
	}{
		{"TEXTBOOK", pack.Textbook},
		{"FLASHCARDS", pack.Flashcards},
		{"QUESTION BANK", pack.QuestionBank},
		{"EXAM", pack.Exam},
	}
	for _, s := range sections {
		fmt.Printf("===== %s =====\n%s\n\n", s.title, s.body)
	}
	return nil
}

func runGrade(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, _, gateway, err := newService(ctx)
	if err != nil {
		return err
	}
	defer gateway.Close()

	examText, err := os.ReadFile(flagExamFile)
	if err != nil {
		return fmt.Errorf("read exam: %w", err)
	}
	answers, err := os.ReadFile(flagAnswersFile)
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}

	feedback, err := svc.Grade(ctx, string(examText), string(answers))
	if err != nil {
		return err
	}

	fmt.Println(feedback)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, _, gateway, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer gateway.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	log.Printf("Starting REST API server on %s", addr)

	return server.NewServer(svc).Run(addr)
}

func runMCP(cmd *cobra.Command, args []string) error {
	svc, pipe, gateway, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	defer gateway.Close()

	return mcp.Run(svc, pipe)
}
