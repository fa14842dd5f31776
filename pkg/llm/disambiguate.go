package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kasumigaseki/refmap/pkg/jptext"
	"github.com/kasumigaseki/refmap/pkg/ref"
)

// Defaults for the disambiguation call. Answers above the cap are clamped:
// a model's self-reported certainty never outranks deterministic rules.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxRunes = 10000
	defaultTokens   = 512

	confidenceCap   = ref.ConfidenceLLMCap
	confidenceFloor = ref.ConfidenceLLMFloor
)

// Answer is one disambiguation result.
type Answer struct {
	LawName    string  `json:"law_name"`
	Article    string  `json:"article,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Disambiguator asks a provider which law an ambiguous mention denotes.
type Disambiguator struct {
	provider Provider

	// Timeout bounds each call; an expired call is treated as no answer.
	Timeout time.Duration

	// MaxRunes disables disambiguation on oversized inputs.
	MaxRunes int
}

// NewDisambiguator wraps a provider with the default limits.
func NewDisambiguator(p Provider) *Disambiguator {
	return &Disambiguator{
		provider: p,
		Timeout:  DefaultTimeout,
		MaxRunes: DefaultMaxRunes,
	}
}

const systemPrompt = `あなたは日本の法令文書の参照解析器です。
与えられた文脈の中で、指定された語句がどの法令を指すかを判定してください。
出力は次のJSONのみ。説明文は書かないでください。
{"law_name": "法令の正式名称", "article": "条番号(漢数字、不明なら省略)", "confidence": 0.0-1.0, "reasoning": "根拠の要約"}`

// Resolve asks the provider which law the candidate text denotes within
// its window. recentLaws lists the laws mentioned shortly before the
// candidate, nearest last. A nil answer means the model could not help.
func (d *Disambiguator) Resolve(ctx context.Context, candidate, window string, recentLaws []string) (*Answer, error) {
	if d.provider == nil {
		return nil, nil
	}
	if d.MaxRunes > 0 && jptext.RuneLen(window) > d.MaxRunes {
		return nil, nil
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var sb strings.Builder
	fmt.Fprintf(&sb, "対象の語句: %s\n\n文脈:\n%s\n", candidate, window)
	if len(recentLaws) > 0 {
		fmt.Fprintf(&sb, "\n直前に言及された法令(新しい順の逆):\n")
		for _, l := range recentLaws {
			fmt.Fprintf(&sb, "- %s\n", l)
		}
	}

	raw, err := d.provider.Complete(ctx, systemPrompt, sb.String(), defaultTokens, 0.0)
	if err != nil {
		// A timeout is an expected outcome, not a pipeline failure.
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("llm: disambiguate: %w", err)
	}

	var ans Answer
	if err := json.Unmarshal([]byte(stripMarkdownFences(raw)), &ans); err != nil {
		return nil, nil
	}
	if ans.LawName == "" {
		return nil, nil
	}

	if ans.Confidence > confidenceCap {
		ans.Confidence = confidenceCap
	}
	if ans.Confidence < confidenceFloor {
		return nil, nil
	}
	return &ans, nil
}
