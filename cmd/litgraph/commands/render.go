package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/litgraph/kb/engine"
	"github.com/teranos/litgraph/kb/types"
)

// Output formats accepted by --format
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTree = "tree"
)

// resultRecord is the serialisable form of an engine result
func resultRecord(r *engine.Result) map[string]interface{} {
	return map[string]interface{}{
		"fingerprint":       r.Fingerprint,
		"strategy":          string(r.Strategy),
		"limit_hit":         r.LimitHit,
		"cached":            r.Cached,
		"execution_time_ms": r.ExecutionTimeMs,
		"tree":              r.Tree.ToMap(),
	}
}

func renderResult(w io.Writer, r *engine.Result, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(resultRecord(r), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case FormatYAML:
		data, err := yaml.Marshal(resultRecord(r))
		if err != nil {
			return fmt.Errorf("failed to marshal result to YAML: %w", err)
		}
		_, err = w.Write(data)
		return err

	case FormatTree:
		out, err := pterm.DefaultTree.WithRoot(treeNode(r.Tree)).Srender()
		if err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
		if _, err := fmt.Fprint(w, out); err != nil {
			return err
		}
		if r.LimitHit {
			_, err = fmt.Fprintln(w, "(row limit reached, results are incomplete)")
		}
		return err
	}
	return fmt.Errorf("unsupported format: %s (supported: json, yaml, tree)", format)
}

// treeNode converts a result node into a pterm tree node
func treeNode(node types.ResultNode) pterm.TreeNode {
	switch n := node.(type) {
	case *types.DocumentResult:
		return pterm.TreeNode{Text: documentLabel(n)}
	case *types.Aggregate:
		return pterm.TreeNode{Text: aggregateLabel(n), Children: treeChildren(n.Children)}
	case *types.AggregateList:
		return pterm.TreeNode{Text: fmt.Sprintf("%d documents", n.Size()), Children: treeChildren(n.Children)}
	}
	return pterm.TreeNode{}
}

func treeChildren(children []types.ResultNode) []pterm.TreeNode {
	out := make([]pterm.TreeNode, len(children))
	for i, c := range children {
		out[i] = treeNode(c)
	}
	return out
}

func documentLabel(d *types.DocumentResult) string {
	date := fmt.Sprintf("%d", d.PublicationYear)
	if d.PublicationMonth > 0 {
		date = fmt.Sprintf("%d-%02d", d.PublicationYear, d.PublicationMonth)
	}
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("[%d] %s (%s, confidence %.2f)", d.DocumentID, title, date, d.Confidence)
}

func aggregateLabel(a *types.Aggregate) string {
	names := make([]string, 0, len(a.Substitutions))
	for _, key := range sortedVariables(a.Substitutions) {
		sub := a.Substitutions[key]
		names = append(names, fmt.Sprintf("?%s=%s", key, sub.DisplayName()))
	}
	label := strings.Join(names, " ")
	if a.Label != "" {
		label += " [" + a.Label + "]"
	}
	return fmt.Sprintf("%s (%d)", label, a.Size())
}

func sortedVariables(subs map[string]types.EntitySubstitution) []string {
	keys := make([]string, 0, len(subs))
	for k := range subs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
