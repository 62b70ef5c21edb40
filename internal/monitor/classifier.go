package monitor

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Policy selects which classification rules are active.
type Policy struct {
	// NewAccounts flags users whose User: page was just created.
	NewAccounts bool `yaml:"new_accounts"`

	// Anonymous flags authors with user id 0 (unregistered/IP edits).
	Anonymous bool `yaml:"anonymous"`

	// UserPrefix is the reserved user-namespace title prefix.
	UserPrefix string `yaml:"user_prefix"`

	// Expression is an optional CEL predicate over a change record.
	// A true result flags the record's author. Available variables:
	// type, namespace, title, user, userid, comment.
	Expression string `yaml:"expression"`
}

// DefaultPolicy returns the default classification policy.
func DefaultPolicy() Policy {
	return Policy{
		NewAccounts: true,
		Anonymous:   true,
		UserPrefix:  "User:",
	}
}

// Classifier partitions a recent-changes batch into per-user edit lists
// for the identities its policy considers untrusted.
type Classifier struct {
	policy Policy
	rule   cel.Program
}

// NewClassifier compiles the policy. An invalid CEL expression is a
// construction error, not a per-record one.
func NewClassifier(policy Policy) (*Classifier, error) {
	if policy.UserPrefix == "" {
		policy.UserPrefix = "User:"
	}
	c := &Classifier{policy: policy}

	if policy.Expression != "" {
		env, err := cel.NewEnv(
			cel.Variable("namespace", cel.IntType),
			cel.Variable("title", cel.StringType),
			cel.Variable("user", cel.StringType),
			cel.Variable("userid", cel.IntType),
			cel.Variable("comment", cel.StringType),
		)
		if err != nil {
			return nil, fmt.Errorf("creating rule environment: %w", err)
		}
		ast, iss := env.Compile(policy.Expression)
		if iss.Err() != nil {
			return nil, fmt.Errorf("compiling rule expression: %w", iss.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rule expression must evaluate to bool, got %v", ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("building rule program: %w", err)
		}
		c.rule = prg
	}

	return c, nil
}

// Classify runs two passes over the batch: the first flags untrusted
// identities, the second buckets every record authored by a flagged
// identity, preserving feed order. Identities flagged without any
// matching records keep an empty bucket.
func (c *Classifier) Classify(batch []ChangeRecord) ClassifiedEdits {
	flagged := make(map[string]struct{})
	for _, rc := range batch {
		if c.policy.NewAccounts && rc.Type == ChangeNew && strings.HasPrefix(rc.Title, c.policy.UserPrefix) {
			flagged[strings.TrimPrefix(rc.Title, c.policy.UserPrefix)] = struct{}{}
		}
		if c.policy.Anonymous && rc.UserID == 0 {
			flagged[rc.User] = struct{}{}
		}
		if c.rule != nil && c.matchRule(rc) {
			flagged[rc.User] = struct{}{}
		}
	}

	classified := make(ClassifiedEdits, len(flagged))
	for name := range flagged {
		classified[name] = []ChangeRecord{}
	}
	for _, rc := range batch {
		if _, ok := flagged[rc.User]; ok {
			classified[rc.User] = append(classified[rc.User], rc)
		}
	}
	return classified
}

// matchRule evaluates the CEL predicate for one record. Evaluation errors
// count as non-matches so Classify stays a total function of the batch.
func (c *Classifier) matchRule(rc ChangeRecord) bool {
	out, _, err := c.rule.Eval(map[string]any{
		"type":      string(rc.Type),
		"namespace": rc.Namespace,
		"title":     rc.Title,
		"user":      rc.User,
		"userid":    rc.UserID,
		"comment":   rc.Comment,
	})
	if err != nil {
		return false
	}
	matched, ok := out.Value().(bool)
	return ok && matched
}
