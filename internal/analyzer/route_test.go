package analyzer

import (
	"testing"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/internal/testutil"
)

func collectRoutes(t *testing.T, source string) ([]domain.Route, error) {
	t.Helper()
	ast := testutil.CreateTestAST(t, source)
	sd, err := CollectSymbolDependency(ast, "routes.js")
	if err != nil {
		t.Fatalf("CollectSymbolDependency failed: %v", err)
	}
	return CollectRouteDependency(ast, sd, config.DefaultConfig().Routes)
}

func TestRouteCollection(t *testing.T) {
	routes, err := collectRoutes(t, `
function Home() { return null }
function About() { return null }
const app = (
  <Switch>
    <Route path="/home" component={Home}/>
    <Route path="/about" component={About}/>
  </Switch>
);
`)
	if err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}

	if len(routes) != 2 {
		t.Fatalf("Expected 2 routes, got %v", routes)
	}
	if routes[0].Path != "/home" || len(routes[0].DependOn) != 1 || routes[0].DependOn[0] != "Home" {
		t.Errorf("Unexpected first route: %+v", routes[0])
	}
	if routes[1].Path != "/about" || len(routes[1].DependOn) != 1 || routes[1].DependOn[0] != "About" {
		t.Errorf("Unexpected second route: %+v", routes[1])
	}
}

func TestRouteTargetsImportedComponent(t *testing.T) {
	routes, err := collectRoutes(t, `
import Dashboard from './dashboard';
const app = <Route path="/dash" component={Dashboard}/>;
`)
	if err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}
	if len(routes) != 1 || routes[0].DependOn[0] != "Dashboard" {
		t.Errorf("Unexpected routes: %+v", routes)
	}
}

func TestRouteUnknownTargetIsFatal(t *testing.T) {
	_, err := collectRoutes(t, `
const app = <Route path="/ghost" component={Ghost}/>;
`)
	if err == nil {
		t.Fatal("Expected unknown symbol error")
	}
	if domain.CodeOf(err) != domain.ErrUnknownSymbolForOverlay {
		t.Errorf("Expected unknown_symbol_for_overlay, got %v", domain.CodeOf(err))
	}
}

func TestRouteWithoutPathIsSkipped(t *testing.T) {
	routes, err := collectRoutes(t, `
function Home() { return null }
const app = <Route component={Home}/>;
`)
	if err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("Expected no routes, got %+v", routes)
	}
}

func TestRouteWithoutTargetKeepsPath(t *testing.T) {
	routes, err := collectRoutes(t, `
const app = <Route path="/static"/>;
`)
	if err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}
	if len(routes) != 1 || routes[0].Path != "/static" || len(routes[0].DependOn) != 0 {
		t.Errorf("Unexpected routes: %+v", routes)
	}
}

func TestRouteNonMatchingElementsIgnored(t *testing.T) {
	routes, err := collectRoutes(t, `
function Home() { return null }
const app = <Link path="/home" component={Home}/>;
`)
	if err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("Expected no routes for non-matching element, got %+v", routes)
	}
}

func TestRouteCustomPattern(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
function Page() { return null }
const app = <Screen url="/p" render={Page}/>;
`)
	sd, err := CollectSymbolDependency(ast, "routes.js")
	if err != nil {
		t.Fatalf("CollectSymbolDependency failed: %v", err)
	}

	routes, err := CollectRouteDependency(ast, sd, config.RouteConfig{
		ElementName: "Screen",
		PathAttr:    "url",
		TargetAttr:  "render",
	})
	if err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}
	if len(routes) != 1 || routes[0].Path != "/p" || routes[0].DependOn[0] != "Page" {
		t.Errorf("Unexpected routes: %+v", routes)
	}
}

func TestSymbolToRoutesAccumulator(t *testing.T) {
	acc := NewSymbolToRoutes()

	ast := testutil.CreateTestAST(t, `
function Home() { return null }
const app = <Route path="/home" component={Home}/>;
`)
	sd, err := CollectSymbolDependency(ast, "a.js")
	if err != nil {
		t.Fatalf("CollectSymbolDependency failed: %v", err)
	}
	if err := acc.CollectRouteDependency(ast, sd, config.DefaultConfig().Routes); err != nil {
		t.Fatalf("CollectRouteDependency failed: %v", err)
	}

	if len(acc.Table) != 1 || len(acc.Table["a.js"]) != 1 {
		t.Fatalf("Unexpected table: %v", acc.Table)
	}
	if acc.Table["a.js"][0].Path != "/home" {
		t.Errorf("Unexpected route: %+v", acc.Table["a.js"][0])
	}
}
