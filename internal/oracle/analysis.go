package oracle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/llm"
	"github.com/abhisek/misparia/internal/stats"
)

// Analysis fallbacks.
const (
	AnalysisNoKeyReply = "חסר מפתח API. הגדר אותו כדי לקבל ניתוח חכם."
	AnalysisEmptyReply = "Error generating report."
	AnalysisErrorReply = "Error analyzing stats."
)

const analysisPrompt = `You are a Game Master analyzing player stats.
Write a short, hype-filled report in Hebrew.
Identify strongest/weakest skills.
Use terms like "Power Level", "Buff needed", "Critical Hit".

Stats:
%s
`

// Analysis is a report plus whether the oracle actually produced it.
type Analysis struct {
	Text      string
	Generated bool
}

// Analyze asks the Game Master persona for a per-topic report. Failures
// return the matching fallback with Generated false.
func (c *Client) Analyze(ctx context.Context, s stats.UserStats) Analysis {
	p := c.Provider()
	if p == nil {
		return Analysis{Text: AnalysisNoKeyReply}
	}

	ctx, cancel := c.withTimeout(llm.WithPurpose(ctx, llm.PurposeAnalysis))
	defer cancel()

	resp, err := p.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(analysisPrompt, stats.Summary(s))},
		},
		MaxTokens:   768,
		Temperature: 0.7,
	})
	if err != nil {
		c.logger.Warn("analysis failed", zap.Error(err))
		return Analysis{Text: AnalysisErrorReply}
	}
	text := resp.Text()
	if text == "" {
		return Analysis{Text: AnalysisEmptyReply}
	}
	return Analysis{Text: text, Generated: true}
}
