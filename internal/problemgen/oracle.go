package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/llm"
)

var errNoProvider = errors.New("no oracle provider configured")

// OracleGenerator asks the AI oracle for a problem and falls back to the
// local synthesizer on any failure.
type OracleGenerator struct {
	source ProviderSource
	local  *Synthesizer
	config Config
	logger *zap.Logger
}

// NewOracleGenerator wires an oracle-backed generator. local must not be nil.
func NewOracleGenerator(source ProviderSource, local *Synthesizer, cfg Config, logger *zap.Logger) *OracleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OracleGenerator{
		source: source,
		local:  local,
		config: cfg,
		logger: logger.Named("problemgen"),
	}
}

// problemOutput is the raw oracle reply before repair.
type problemOutput struct {
	Topic         string   `json:"topic"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Generate returns an oracle problem when possible, else a local one.
func (g *OracleGenerator) Generate(ctx context.Context, input Input) Problem {
	input = input.normalized()

	p, err := g.fromOracle(ctx, input)
	if err == nil {
		return *p
	}
	if !errors.Is(err, errNoProvider) {
		g.logger.Warn("oracle problem rejected, using local synthesis",
			zap.Error(err),
			zap.Strings("topics", topicKeys(input.Topics)),
		)
	}
	return g.local.Generate(ctx, input)
}

func (g *OracleGenerator) fromOracle(ctx context.Context, input Input) (*Problem, error) {
	var provider llm.Provider
	if g.source != nil {
		provider = g.source.Provider()
	}
	if provider == nil {
		return nil, errNoProvider
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeProblem)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      ProblemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("oracle generation failed: %w", err)
	}

	var raw problemOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse oracle problem: %w", err)
	}

	p := &Problem{
		Question:      strings.TrimSpace(raw.Question),
		CorrectAnswer: strings.TrimSpace(raw.CorrectAnswer),
		Explanation:   strings.TrimSpace(raw.Explanation),
		Topic:         coerceTopic(raw.Topic, input),
		Difficulty:    input.Difficulty,
	}
	p.Options = g.repairOptions(p.CorrectAnswer, raw.Options)

	for _, v := range g.config.Validators {
		if verr := v.Validate(p, input); verr != nil {
			return nil, verr
		}
	}
	return p, nil
}

// coerceTopic keeps the oracle's topic when it was requested, else the
// first requested topic.
func coerceTopic(raw string, input Input) Topic {
	if t, err := ParseTopic(raw); err == nil && input.allows(t) {
		return t
	}
	return input.Topics[0]
}

// repairOptions deduplicates, inserts the correct answer when missing, pads
// integer answers with nearby distractors and trims extras. A result that
// still breaks the invariant is caught by StructuralValidator.
func (g *OracleGenerator) repairOptions(correct string, raw []string) []string {
	seen := make(map[string]bool, len(raw))
	cleaned := make([]string, 0, len(raw))
	hasCorrect := false
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		cleaned = append(cleaned, o)
		if o == correct {
			hasCorrect = true
		}
	}
	if hasCorrect && len(cleaned) == OptionCount {
		return cleaned
	}

	opts := make([]string, 0, OptionCount)
	if correct != "" {
		opts = append(opts, correct)
	}
	for _, o := range cleaned {
		if len(opts) == OptionCount {
			break
		}
		if o != correct {
			opts = append(opts, o)
		}
	}

	if len(opts) < OptionCount {
		n, err := strconv.Atoi(correct)
		if err != nil {
			return opts
		}
		return g.local.pad(n, opts)
	}
	g.local.shuffle(opts)
	return opts
}

func topicKeys(ts []Topic) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
