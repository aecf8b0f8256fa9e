package policy

// Action is the resolved outcome of evaluating a pattern against
// configuration.
type Action string

const (
	ActionAllow Action = "allow"
	ActionDeny  Action = "deny"
	ActionAsk   Action = "ask"
)

// Rule is a configured pattern in an allow or deny list.
type Rule struct {
	Pattern string `json:"pattern"`
}

// Level is one tier of configuration with its own allow and deny lists.
// Deny is always consulted before allow within a level. Levels are ordered
// by the caller, most specific first; the engine never infers order.
type Level struct {
	Name  string `json:"name"`
	Allow []Rule `json:"allow"`
	Deny  []Rule `json:"deny"`
}

// Decision carries the resolved action plus the rule and level that
// produced it, for audit logging. MatchedRule and Level are empty when the
// decision is the unmatched-default ask.
type Decision struct {
	Action      Action `json:"action"`
	MatchedRule string `json:"matchedRule,omitempty"`
	Level       string `json:"level,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
}

// Resolve walks the levels in order and returns the first matching
// decision. Within a level deny rules are consulted first and short-circuit
// all remaining levels. A pattern no rule matches resolves to ask: an
// unmatched action is never silently allowed.
func Resolve(pattern string, levels []Level) Decision {
	for _, level := range levels {
		for _, rule := range level.Deny {
			if Matches(pattern, rule.Pattern) {
				return Decision{
					Action:      ActionDeny,
					MatchedRule: rule.Pattern,
					Level:       level.Name,
					Pattern:     pattern,
				}
			}
		}
		for _, rule := range level.Allow {
			if Matches(pattern, rule.Pattern) {
				return Decision{
					Action:      ActionAllow,
					MatchedRule: rule.Pattern,
					Level:       level.Name,
					Pattern:     pattern,
				}
			}
		}
	}
	return Decision{Action: ActionAsk, Pattern: pattern}
}

// Aggregate resolves each pattern of a compound command independently and
// combines the results: any deny makes the whole command denied, otherwise
// any ask makes it ask, otherwise everything was allowed. A compound
// command is only as safe as its most dangerous clause.
func Aggregate(patterns []string, levels []Level) Decision {
	if len(patterns) == 1 {
		return Resolve(patterns[0], levels)
	}

	overall := Decision{Action: ActionAllow}
	sawAsk := false
	var askDecision Decision

	for _, pattern := range patterns {
		d := Resolve(pattern, levels)
		switch d.Action {
		case ActionDeny:
			return d
		case ActionAsk:
			if !sawAsk {
				sawAsk = true
				askDecision = d
			}
		case ActionAllow:
			if overall.MatchedRule == "" {
				overall = d
			}
		}
	}

	if sawAsk {
		return askDecision
	}
	if len(patterns) == 0 {
		return Decision{Action: ActionAsk}
	}
	return overall
}
