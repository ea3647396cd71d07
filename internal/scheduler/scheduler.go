package scheduler

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/parser"
	"github.com/ludo-technologies/jstrace/internal/resolver"
)

// Scheduler hands out parser candidates so that every module a
// candidate namespace-imports or star-re-exports has been released
// before the candidate itself. Plain named/default imports impose no
// ordering.
type Scheduler struct {
	candidates map[string]*candidate
	ready      []string // unreleased candidates with zero blockers, sorted
	remaining  int
	warnings   []string
}

type candidate struct {
	blockers   int
	successors []string
	released   bool
}

// hard predecessors of one module, found by the pre-scan
type prescanResult struct {
	path  string
	hards []string
}

// New discovers candidates under the resolver's project root and
// pre-scans them for hard-predecessor edges. The pre-scan parses every
// candidate once and runs concurrently; a candidate that fails to parse
// degrades to having no predecessors so its extractor can re-surface
// the error. Read failures are fatal.
func New(res *resolver.Resolver, extensions, excludeDirs []string, concurrency int) (*Scheduler, error) {
	paths, err := CollectCandidates(res, extensions, excludeDirs)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		candidates: make(map[string]*candidate, len(paths)),
		remaining:  len(paths),
	}
	for _, p := range paths {
		s.candidates[p] = &candidate{}
	}

	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	var mu sync.Mutex
	results := make([]prescanResult, 0, len(paths))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, p := range paths {
		g.Go(func() error {
			hards, err := prescan(res, p)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, prescanResult{path: p, hards: hards})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, result := range results {
		for _, pred := range result.hards {
			target, ok := s.candidates[pred]
			if !ok || pred == result.path {
				continue
			}
			target.successors = append(target.successors, result.path)
			s.candidates[result.path].blockers++
		}
	}

	for _, p := range paths {
		if s.candidates[p].blockers == 0 {
			s.ready = append(s.ready, p)
		}
	}
	sort.Strings(s.ready)

	return s, nil
}

// prescan enumerates the resolved namespace-import and star-re-export
// targets of one candidate. Unresolved specifiers are dropped.
func prescan(res *resolver.Resolver, canonicalPath string) ([]string, error) {
	source, err := os.ReadFile(res.Abs(canonicalPath))
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrIO, fmt.Sprintf("read candidate %s", canonicalPath), err)
	}

	ast, err := parser.ParseForLanguage(canonicalPath, source)
	if err != nil {
		// Degrade to "no predecessors"; the extractor will hit the
		// same parse error and report it properly
		return nil, nil
	}

	seen := make(map[string]struct{})
	var hards []string
	for _, stmt := range ast.Body {
		specifier := ""
		switch stmt.Type {
		case parser.NodeImportDeclaration:
			for _, spec := range stmt.Specifiers {
				if spec.Type == parser.NodeImportNamespaceSpecifier {
					specifier = stmt.Source.StringValue()
				}
			}
		case parser.NodeExportAllDeclaration:
			specifier = stmt.Source.StringValue()
		}
		if specifier == "" {
			continue
		}
		resolved, err := res.Resolve(canonicalPath, specifier)
		if err != nil {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		hards = append(hards, resolved)
	}
	return hards, nil
}

// TotalRemaining returns the count of unreleased candidates.
func (s *Scheduler) TotalRemaining() int {
	return s.remaining
}

// Next returns an unreleased candidate whose hard predecessors have all
// been released, or ("", false) once every candidate is released. When
// only cyclically-blocked candidates remain, the cycle is broken by
// force-releasing its lexicographically smallest member.
func (s *Scheduler) Next() (string, bool) {
	if s.remaining == 0 {
		return "", false
	}
	if len(s.ready) == 0 {
		s.breakCycle()
	}
	if len(s.ready) == 0 {
		return "", false
	}
	return s.ready[0], true
}

// MarkParsed acknowledges completion of a candidate and promotes any
// successors whose blocker count reaches zero.
func (s *Scheduler) MarkParsed(path string) {
	c, ok := s.candidates[path]
	if !ok || c.released {
		return
	}
	c.released = true
	s.remaining--

	for i, ready := range s.ready {
		if ready == path {
			s.ready = append(s.ready[:i], s.ready[i+1:]...)
			break
		}
	}

	for _, successor := range c.successors {
		sc := s.candidates[successor]
		sc.blockers--
		if sc.blockers == 0 && !sc.released {
			s.insertReady(successor)
		}
	}
}

// Warnings returns the cycle-break notices accumulated so far.
func (s *Scheduler) Warnings() []string {
	return s.warnings
}

func (s *Scheduler) insertReady(path string) {
	at := sort.SearchStrings(s.ready, path)
	s.ready = append(s.ready, "")
	copy(s.ready[at+1:], s.ready[at:])
	s.ready[at] = path
}

// breakCycle force-releases the lexicographically smallest member of a
// namespace/star-re-export cycle. Called only when candidates remain
// but none are ready, which can only happen on a cycle.
func (s *Scheduler) breakCycle() {
	members := s.cycleMembers()
	if len(members) == 0 {
		// Defensive: promote the smallest stalled candidate
		for path, c := range s.candidates {
			if !c.released {
				members = append(members, path)
			}
		}
	}
	sort.Strings(members)
	chosen := members[0]
	s.candidates[chosen].blockers = 0
	s.insertReady(chosen)
	s.warnings = append(s.warnings, fmt.Sprintf(
		"%s: namespace/star-re-export cycle broken by releasing %s first",
		domain.ErrSchedulerCycle, chosen))
}

// cycleMembers returns every unreleased candidate that lies on a
// dependency cycle, using Tarjan's strongly connected components over
// the unreleased hard-predecessor graph.
func (s *Scheduler) cycleMembers() []string {
	index := 0
	indexes := make(map[string]int)
	lowlinks := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var members []string

	var strongConnect func(path string)
	strongConnect = func(path string) {
		indexes[path] = index
		lowlinks[path] = index
		index++
		stack = append(stack, path)
		onStack[path] = true

		for _, successor := range s.candidates[path].successors {
			sc := s.candidates[successor]
			if sc.released {
				continue
			}
			if _, visited := indexes[successor]; !visited {
				strongConnect(successor)
				if lowlinks[successor] < lowlinks[path] {
					lowlinks[path] = lowlinks[successor]
				}
			} else if onStack[successor] {
				if indexes[successor] < lowlinks[path] {
					lowlinks[path] = indexes[successor]
				}
			}
		}

		if lowlinks[path] == indexes[path] {
			var component []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				component = append(component, top)
				if top == path {
					break
				}
			}
			if len(component) > 1 {
				members = append(members, component...)
			}
		}
	}

	var unreleased []string
	for path, c := range s.candidates {
		if !c.released {
			unreleased = append(unreleased, path)
		}
	}
	sort.Strings(unreleased)
	for _, path := range unreleased {
		if _, visited := indexes[path]; !visited {
			strongConnect(path)
		}
	}

	return members
}
