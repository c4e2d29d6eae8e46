package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateGraph performs the structural checks a graph must pass before a
// traversal can run on it. Returns a combined error describing all problems
// found, or nil if valid.
func ValidateGraph(g *QuestionGraph) error {
	if g == nil {
		return fmt.Errorf("%w: graph is nil", ErrInvalidGraph)
	}

	var errs []string

	if g.InitialQuestionID == "" {
		errs = append(errs, "initialQuestionId is empty")
	} else if _, ok := g.Questions[g.InitialQuestionID]; !ok {
		errs = append(errs, fmt.Sprintf("initial question %q does not exist", g.InitialQuestionID))
	}

	for _, id := range sortedIDs(g) {
		q := g.Questions[id]
		if q.ID != "" && q.ID != id {
			errs = append(errs, fmt.Sprintf("question %q is stored under key %q", q.ID, id))
		}
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %q has no text", id))
		}
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Sprintf("question %q has no options", id))
		}

		seen := make(map[string]bool, len(q.Options))
		for i, opt := range q.Options {
			prefix := fmt.Sprintf("question %q option %d", id, i)
			if strings.TrimSpace(opt.Text) == "" {
				errs = append(errs, prefix+": empty text")
			}
			if seen[opt.Text] {
				errs = append(errs, fmt.Sprintf("%s: duplicate text %q", prefix, opt.Text))
			}
			seen[opt.Text] = true

			if !opt.Terminal() {
				if _, ok := g.Questions[opt.NextQuestionID]; !ok {
					errs = append(errs, fmt.Sprintf("%s references nonexistent question %q", prefix, opt.NextQuestionID))
				}
			}
			for axis := range opt.RadarScore {
				if !axis.Valid() {
					errs = append(errs, fmt.Sprintf("%s: unknown axis %q", prefix, axis))
				}
			}
		}
	}

	// Every question the user can reach must still be able to finish.
	if len(errs) == 0 {
		finishing := canFinish(g)
		var trapped []string
		for _, id := range reachable(g) {
			if !finishing[id] {
				trapped = append(trapped, id)
			}
		}
		if len(trapped) > 0 {
			errs = append(errs, fmt.Sprintf("no terminating answer reachable from: %s", strings.Join(trapped, ", ")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidGraph, strings.Join(errs, "\n  "))
	}
	return nil
}

// Unreachable returns the ids of questions no path from the initial question visits.
func Unreachable(g *QuestionGraph) []string {
	visited := make(map[string]bool, len(g.Questions))
	for _, id := range reachable(g) {
		visited[id] = true
	}
	var out []string
	for _, id := range sortedIDs(g) {
		if !visited[id] {
			out = append(out, id)
		}
	}
	return out
}

// reachable walks the graph breadth-first from the initial question.
func reachable(g *QuestionGraph) []string {
	if _, ok := g.Questions[g.InitialQuestionID]; !ok {
		return nil
	}
	visited := map[string]bool{g.InitialQuestionID: true}
	order := []string{g.InitialQuestionID}
	queue := []string{g.InitialQuestionID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, opt := range g.Questions[id].Options {
			next := opt.NextQuestionID
			if next == "" || visited[next] {
				continue
			}
			if _, ok := g.Questions[next]; !ok {
				continue
			}
			visited[next] = true
			order = append(order, next)
			queue = append(queue, next)
		}
	}
	return order
}

// canFinish marks questions from which some sequence of answers terminates.
func canFinish(g *QuestionGraph) map[string]bool {
	finishing := make(map[string]bool, len(g.Questions))
	for changed := true; changed; {
		changed = false
		for id, q := range g.Questions {
			if finishing[id] {
				continue
			}
			for _, opt := range q.Options {
				if opt.Terminal() || finishing[opt.NextQuestionID] {
					finishing[id] = true
					changed = true
					break
				}
			}
		}
	}
	return finishing
}

func sortedIDs(g *QuestionGraph) []string {
	ids := make([]string, 0, len(g.Questions))
	for id := range g.Questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
