package relay

import (
	"strings"

	"relaybot/internal/domain"
)

// Decision is the routing outcome for a single post.
type Decision struct {
	// Drop means no delivery happens for this post.
	Drop bool
	// NoDefault marks a drop caused by a missing or empty Default
	// webhook, a configuration error rather than a normal suppression.
	NoDefault bool
	// Webhook is the destination URL when Drop is false.
	Webhook string
}

// SelectWebhook applies the ordered routing policy:
//
//  1. Suppression: any NoPost tag contained in the text drops the post.
//     This has absolute priority over all other rules.
//  2. First match in table order among non-reserved rules, by tag or
//     contains substring.
//  3. The Default rule's webhook as fallback; a missing or empty one is
//     a configuration error.
//
// Matching is case-sensitive substring containment. Empty tags and
// empty contains values never match.
func SelectWebhook(postText string, table []domain.RoutingRule) Decision {
	if noPost := findRule(table, domain.RuleNoPost); noPost != nil {
		for _, tag := range noPost.Tags {
			if tag != "" && strings.Contains(postText, tag) {
				return Decision{Drop: true}
			}
		}
	}

	for _, rule := range table {
		if rule.Name == domain.RuleNoPost || rule.Name == domain.RuleDefault {
			continue
		}
		if ruleMatches(rule, postText) {
			return Decision{Webhook: rule.Webhook}
		}
	}

	if def := findRule(table, domain.RuleDefault); def != nil && def.Webhook != "" {
		return Decision{Webhook: def.Webhook}
	}
	return Decision{Drop: true, NoDefault: true}
}

func ruleMatches(rule domain.RoutingRule, text string) bool {
	for _, tag := range rule.Tags {
		if tag != "" && strings.Contains(text, tag) {
			return true
		}
	}
	return rule.Contains != "" && strings.Contains(text, rule.Contains)
}

// findRule returns the first rule with the given name, or nil.
func findRule(table []domain.RoutingRule, name string) *domain.RoutingRule {
	for i := range table {
		if table[i].Name == name {
			return &table[i]
		}
	}
	return nil
}
