// Package conversation turns typed commands into intents and resolves
// their payloads against what is on screen.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Which commands are recognised depends on the current view.
type KeywordParser struct {
	log    *logger.Logger
	global []patternRule
	views  map[domain.View][]patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// withArg rules capture the payload in group 1.
	withArg bool
}

func rule(expr string, intent domain.IntentType) patternRule {
	return patternRule{regex: regexp.MustCompile(expr), intent: intent}
}

func argRule(expr string, intent domain.IntentType) patternRule {
	return patternRule{regex: regexp.MustCompile(expr), intent: intent, withArg: true}
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.global = []patternRule{
		rule(`(?i)^(quit|exit|q)$`, domain.IntentQuit),
		rule(`(?i)^(help|h|\?)$`, domain.IntentHelp),
		rule(`(?i)^(dismiss|ok|got it|x)$`, domain.IntentDismissError),
		rule(`(?i)^(health|ping|status)$`, domain.IntentHealth),
		rule(`(?i)^(back|b|prev|previous)$`, domain.IntentBack),
		rule(`(?i)^(retake|new|restart|reset|start over)$`, domain.IntentRetake),
	}

	selectRules := []patternRule{
		argRule(`^(\d{1,3})$`, domain.IntentSelectRecipe),
		argRule(`(?i)^(?:pick|select|open|show|view)\s+(.+)$`, domain.IntentSelectRecipe),
	}

	p.views = map[domain.View][]patternRule{
		domain.ViewUpload: {
			argRule(`(?i)^(?:open|upload|load|photo|image)\s+(.+)$`, domain.IntentOpenImage),
		},
		domain.ViewDetection: {
			argRule(`(?i)^(?:remove|rm|delete|del|drop)\s+(.+)$`, domain.IntentRemoveItem),
			rule(`(?i)^(generate|gen|g|go|cook|recipes)$`, domain.IntentGenerate),
		},
		domain.ViewRecipeList: selectRules,
		domain.ViewRecipeDetail: append([]patternRule{
			argRule(`(?i)^(?:check|tick|toggle|c)\s+(\d{1,3})$`, domain.IntentCheck),
			rule(`(?i)^(read|speak|narrate|say|r)$`, domain.IntentRead),
			argRule(`(?i)^(?:read|speak|say|r)\s+(\d{1,3})$`, domain.IntentRead),
		}, selectRules...),
	}
	return p
}

// Parse converts user input into an intent for the given view.
func (p *KeywordParser) Parse(ctx context.Context, input string, view domain.View) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input on %s: %q", view, trimmed)

	for _, rules := range [][]patternRule{p.global, p.views[view]} {
		if intent, ok := match(rules, trimmed); ok {
			p.log.Debug("matched intent: %s", intent.Type)
			return intent, nil
		}
	}

	// On the upload screen anything else is taken as a path, which is what
	// a terminal pastes when a file is dropped onto it.
	if view == domain.ViewUpload {
		return &domain.Intent{Type: domain.IntentOpenImage, Payload: trimmed}, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func match(rules []patternRule, s string) (*domain.Intent, bool) {
	for _, r := range rules {
		m := r.regex.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		intent := &domain.Intent{Type: r.intent}
		if r.withArg && len(m) > 1 {
			intent.Payload = strings.TrimSpace(m[1])
		}
		return intent, true
	}
	return nil, false
}

// Usage lists the commands accepted on a view, for the help line.
func Usage(view domain.View) []string {
	var cmds []string
	switch view {
	case domain.ViewUpload:
		cmds = []string{"open <path>", "<path>"}
	case domain.ViewDetection:
		cmds = []string{"remove <n|name>", "generate", "retake", "back"}
	case domain.ViewRecipeList:
		cmds = []string{"<n>", "pick <n|name>", "back", "retake"}
	case domain.ViewRecipeDetail:
		cmds = []string{"check <n>", "read [step]", "pick <n|name>", "back", "retake"}
	}
	return append(cmds, "dismiss", "health", "help", "quit")
}
