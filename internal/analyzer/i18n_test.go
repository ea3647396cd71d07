package analyzer

import (
	"testing"

	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/ludo-technologies/jstrace/internal/testutil"
)

var testTranslators = []string{"t", "translate"}

func keysOf(t *testing.T, usage map[string]map[string]struct{}, symbol string) map[string]struct{} {
	t.Helper()
	keys, ok := usage[symbol]
	if !ok {
		t.Fatalf("Expected i18n usage for %q, got %v", symbol, usage)
	}
	return keys
}

func TestI18nAttachesKeyToEnclosingFunction(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
function Home() { return t('home.title') }
`)
	usage, err := CollectI18nUsage(ast, testTranslators)
	if err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	keys := keysOf(t, usage, "Home")
	if _, ok := keys["home.title"]; !ok || len(keys) != 1 {
		t.Errorf("Expected {home.title}, got %v", keys)
	}
}

func TestI18nCoversAllDeclarationForms(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
const label = t('label.key');
export function Greet() { return translate('greet.key') }
export default function() { return t('anon.key') }
`)
	usage, err := CollectI18nUsage(ast, testTranslators)
	if err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	if _, ok := keysOf(t, usage, "label")["label.key"]; !ok {
		t.Error("Expected label.key on label")
	}
	if _, ok := keysOf(t, usage, "Greet")["greet.key"]; !ok {
		t.Error("Expected greet.key on Greet")
	}
	if _, ok := keysOf(t, usage, constants.AnonymousDefaultExportName)["anon.key"]; !ok {
		t.Error("Expected anon.key on the reserved anonymous-default local")
	}
}

func TestI18nDropsTopLevelCalls(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
t('dropped.key');
const kept = t('kept.key');
`)
	usage, err := CollectI18nUsage(ast, testTranslators)
	if err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	if len(usage) != 1 {
		t.Fatalf("Expected usage for one symbol, got %v", usage)
	}
	if _, ok := keysOf(t, usage, "kept")["kept.key"]; !ok {
		t.Error("Expected kept.key on kept")
	}
}

func TestI18nIgnoresNonLiteralAndForeignCalls(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
const dynamicKey = 'dyn';
function C() {
  t(dynamicKey);
  other('not.a.key');
  obj.t('method.call');
  return t('real.key');
}
`)
	usage, err := CollectI18nUsage(ast, testTranslators)
	if err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	keys := keysOf(t, usage, "C")
	if len(keys) != 1 {
		t.Fatalf("Expected exactly one key, got %v", keys)
	}
	if _, ok := keys["real.key"]; !ok {
		t.Error("Expected real.key")
	}
}

func TestI18nDeduplicatesKeys(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
function C() {
  t('same.key');
  t('same.key');
  return translate('same.key');
}
`)
	usage, err := CollectI18nUsage(ast, testTranslators)
	if err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	keys := keysOf(t, usage, "C")
	if len(keys) != 1 {
		t.Errorf("Expected one deduplicated key, got %v", keys)
	}
}

func TestI18nSharedAcrossDestructuredBindings(t *testing.T) {
	ast := testutil.CreateTestAST(t, `
const { a, b } = { a: t('shared.key'), b: 2 };
`)
	usage, err := CollectI18nUsage(ast, testTranslators)
	if err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	for _, symbol := range []string{"a", "b"} {
		if _, ok := keysOf(t, usage, symbol)["shared.key"]; !ok {
			t.Errorf("Expected shared.key on %s", symbol)
		}
	}
}

func TestI18nToSymbolAccumulator(t *testing.T) {
	acc := NewI18nToSymbol()

	ast := testutil.CreateTestAST(t, `function A() { return t('a.key') }`)
	if err := acc.CollectI18nUsage("a.js", ast, testTranslators); err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	empty := testutil.CreateTestAST(t, `const plain = 1;`)
	if err := acc.CollectI18nUsage("b.js", empty, testTranslators); err != nil {
		t.Fatalf("CollectI18nUsage failed: %v", err)
	}

	if len(acc.Table) != 1 {
		t.Fatalf("Expected one module in the table, got %v", acc.Table)
	}
	if _, ok := acc.Table["a.js"]["A"]["a.key"]; !ok {
		t.Errorf("Expected a.js/A/a.key, got %v", acc.Table)
	}
}
