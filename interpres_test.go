package interpres

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const dataDir = "data"

var (
	engineOnce sync.Once
	engine     *Engine
	engineErr  error
)

// testEngine loads the bundled data once for the whole package.
func testEngine(t *testing.T) *Engine {
	t.Helper()
	engineOnce.Do(func() {
		engine, engineErr = New(dataDir)
	})
	if engineErr != nil {
		t.Fatalf("New(%q): %v", dataDir, engineErr)
	}
	return engine
}

func TestNew(t *testing.T) {
	e := testEngine(t)
	lex, ok := e.Vocabulary().(*Lexicon)
	if !ok {
		t.Fatalf("Vocabulary() is %T, want *Lexicon", e.Vocabulary())
	}
	if lex.Len() == 0 {
		t.Fatal("lexicon is empty")
	}
	if !lex.Model().HMM.Trained() {
		t.Error("HMM was not trained from corpus.txt")
	}
	t.Logf("Loaded %d readings, %d categories, %d features, %d rule anchors",
		lex.Len(), lex.categories.Len(), len(lex.model.Features), len(lex.model.Rules))
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New("does-not-exist"); err == nil {
		t.Fatal("New on a missing directory succeeded")
	}
}

func TestNewWithVocabularyNil(t *testing.T) {
	if _, err := NewWithVocabulary(nil); err == nil {
		t.Fatal("NewWithVocabulary(nil) succeeded")
	}
}

func TestClassification(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		text   string
		class  Classification
		person Person
		tense  Tense
	}{
		{"Did you see that?", Interrogative, PersonSecond, TensePast},
		{"Please close the door.", Imperative, PersonSecond, TensePresent},
		{"I went to the store yesterday.", Conversational, PersonFirst, TensePast},
		{"She will come tomorrow.", Declarative, PersonThird, TenseFuture},
		{"Where is the store?", Declarative, PersonSecond, TensePresent},
		{"Did you see that?!", Interrogative, PersonSecond, TensePast},
		{"The dog barks.", Imperative, PersonSecond, TensePresent},
		{"He saw me.", Conversational, PersonFirst, TensePast},
		{"You saw him.", Imperative, PersonSecond, TensePast},
	}
	for _, tt := range tests {
		res := e.Interpret(tt.text)
		if len(res.Phrases) != 1 {
			t.Errorf("%q: got %d phrases, want 1", tt.text, len(res.Phrases))
			continue
		}
		p := res.Phrases[0]
		if p.Classification != tt.class {
			t.Errorf("%q: classification = %s, want %s", tt.text, p.Classification, tt.class)
		}
		if p.Person != tt.person {
			t.Errorf("%q: person = %s, want %s", tt.text, p.Person, tt.person)
		}
		if p.Tense != tt.tense {
			t.Errorf("%q: tense = %s, want %s", tt.text, p.Tense, tt.tense)
		}
	}
}

func TestCoreference(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		text    string
		pronoun string
		want    string
	}{
		{"John called Sara. He said hello.", "he", "John"},
		{"John and Sara left. They were early.", "they", "John|Sara"},
		{"Sara called John. She said hello.", "she", "Sara"},
	}
	for _, tt := range tests {
		res := e.Interpret(tt.text)
		found := false
		for _, tok := range res.MWETokens {
			if tok.Lower() != tt.pronoun {
				continue
			}
			found = true
			if tok.Antecedent != tt.want {
				t.Errorf("%q: %q resolves to %q, want %q", tt.text, tt.pronoun, tok.Antecedent, tt.want)
			}
		}
		if !found {
			t.Errorf("%q: pronoun %q not found", tt.text, tt.pronoun)
		}
	}
}

func TestFirstPersonUnresolved(t *testing.T) {
	e := testEngine(t)
	res := e.Interpret("John called me.")
	for _, tok := range res.MWETokens {
		if tok.Lower() == "me" && tok.Antecedent != "" {
			t.Errorf("first-person pronoun resolved to %q", tok.Antecedent)
		}
	}
}

func TestNegationFusion(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("I have not eaten")
	if len(in.Tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(in.Tokens), in.Tokens)
	}
	verb := in.Tokens[1]
	if verb.Word != "have not eaten" {
		t.Errorf("fused word = %q, want %q", verb.Word, "have not eaten")
	}
	if verb.Tag != TagVBPP {
		t.Errorf("fused tag = %s, want %s", verb.Tag, TagVBPP)
	}
	if !verb.Negative {
		t.Error("fused verb is not negative")
	}
}

func TestNumericSuffixes(t *testing.T) {
	e := testEngine(t)
	tests := []struct {
		text  string
		tag   Tag
		kind  LiteralKind
		value float64
	}{
		{"3rd", TagCD, LiteralOrdinal, 3},
		{"1990s", TagSysDecade, LiteralDecade, 1990},
		{"90s", TagSysDecade, LiteralDecade, 90},
		{"5pm", TagSysTime, LiteralTime, 17},
	}
	for _, tt := range tests {
		in := e.Tokenize(tt.text)
		if len(in.Tokens) != 1 {
			t.Errorf("%q: got %d tokens, want 1", tt.text, len(in.Tokens))
			continue
		}
		tok := in.Tokens[0]
		if tok.Tag != tt.tag {
			t.Errorf("%q: tag = %s, want %s", tt.text, tok.Tag, tt.tag)
		}
		if tok.Literal == nil || tok.Literal.Kind != tt.kind || tok.Literal.Value != tt.value {
			t.Errorf("%q: literal = %+v, want kind %d value %v", tt.text, tok.Literal, tt.kind, tt.value)
		}
	}
}

func TestSplitPriority(t *testing.T) {
	e := testEngine(t)
	res := e.Interpret("I ate the cake, then in the morning I left.")
	if len(res.Phrases) != 2 {
		t.Fatalf("got %d phrases, want 2", len(res.Phrases))
	}
	first, second := res.Phrases[0], res.Phrases[1]
	if first.Range != (Range{Start: 0, End: 4}) {
		t.Errorf("first range = %+v, want [0,4)", first.Range)
	}
	want := &SplitMarker{Index: 4, Kind: SplitSeparator}
	if diff := cmp.Diff(want, second.Split); diff != "" {
		t.Errorf("split marker mismatch (-want +got):\n%s", diff)
	}
}

func TestPhraseCoverage(t *testing.T) {
	e := testEngine(t)
	for _, text := range []string{
		"I ate the cake, then in the morning I left.",
		"John called Sara. He said hello.",
		"Please close the door. Did you see that?",
		"The man drove the car to the house and the woman saw a dog in the park.",
		"hello",
		"",
	} {
		res := e.Interpret(text)
		next := 0
		for _, p := range res.Phrases {
			if p.Range.Start != next {
				t.Errorf("%q: phrase starts at %d, want %d", text, p.Range.Start, next)
			}
			if p.Range.Len() <= 0 {
				t.Errorf("%q: empty phrase %+v", text, p.Range)
			}
			next = p.Range.End
		}
		if next != len(res.MWETokens) {
			t.Errorf("%q: phrases cover [0,%d), want [0,%d)", text, next, len(res.MWETokens))
		}
	}
}

func TestDeterminism(t *testing.T) {
	e := testEngine(t)
	const text = "John and Sara left the store. They were early, then I went home."
	a, b := e.Interpret(text), e.Interpret(text)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("two runs differ (-first +second):\n%s", diff)
	}
	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Error("JSON encodings differ")
	}
}

func TestRoundTrip(t *testing.T) {
	e := testEngine(t)
	for _, text := range []string{
		"I went to the store yesterday.",
		"John called Sara. He said hello.",
		"Did you see that?",
		"I don't know.",
	} {
		in := e.Tokenize(text)
		var b strings.Builder
		for _, tok := range in.Tokens {
			b.WriteString(tok.Text)
		}
		want := strings.Join(strings.Fields(text), "")
		if got := b.String(); got != want {
			t.Errorf("%q: surface text = %q, want %q", text, got, want)
		}
	}
}

func TestTagIdempotent(t *testing.T) {
	e := testEngine(t)
	in := e.Tokenize("I ate the cake.")
	for i := range in.Tokens {
		if in.Tokens[i].Ambiguous() {
			t.Fatalf("token %q is ambiguous", in.Tokens[i].Word)
		}
	}
	before := make([]Tag, len(in.Tokens))
	for i, tok := range in.Tokens {
		before[i] = tok.Tag
	}
	e.Tag(in)
	for i, tok := range in.Tokens {
		if tok.Tag != before[i] {
			t.Errorf("token %q: tag changed from %s to %s", tok.Word, before[i], tok.Tag)
		}
	}
}

func TestSpellCorrection(t *testing.T) {
	e := testEngine(t)
	res := e.Interpret("I ate the cakke.")
	var tok *Token
	for i := range res.Tokens {
		if res.Tokens[i].Text == "cakke" {
			tok = &res.Tokens[i]
		}
	}
	if tok == nil {
		t.Fatal("token for \"cakke\" not found")
	}
	if tok.Correction != "cake" {
		t.Errorf("correction = %q, want %q", tok.Correction, "cake")
	}
	if tok.Tag != TagNN {
		t.Errorf("tag = %s, want %s", tok.Tag, TagNN)
	}
}

func TestUnknownProperNoun(t *testing.T) {
	e := testEngine(t)
	res := e.Interpret("I called Zorblax.")
	for _, tok := range res.Tokens {
		if tok.Text == "Zorblax" && tok.Tag != TagNNP {
			t.Errorf("Zorblax tagged %s, want NNP", tok.Tag)
		}
	}
}

func TestForms(t *testing.T) {
	e := testEngine(t)
	forms, ok := e.Forms("eat")
	if !ok {
		t.Fatal("Forms(eat) not found")
	}
	want := map[string][]string{
		"VB":  {"eat"},
		"VBP": {"eat"},
		"VBZ": {"eats"},
		"VBD": {"ate"},
		"VBN": {"eaten"},
		"VBG": {"eating"},
	}
	if diff := cmp.Diff(want, forms); diff != "" {
		t.Errorf("Forms(eat) mismatch (-want +got):\n%s", diff)
	}

	// An inflected form finds the same paradigm.
	fromAte, _ := e.Forms("ate")
	if diff := cmp.Diff(forms, fromAte); diff != "" {
		t.Errorf("Forms(ate) differs from Forms(eat):\n%s", diff)
	}

	if _, ok := e.Forms("xyzzy"); ok {
		t.Error("Forms(xyzzy) reported found")
	}
}

func TestCategoryScores(t *testing.T) {
	e := testEngine(t)
	res := e.Interpret("The red light stopped the fire truck.")
	if res.Scores["vehicle"] <= 0 {
		t.Errorf("vehicle score = %v, want > 0 (scores %v)", res.Scores["vehicle"], res.Scores)
	}
	for code, s := range res.Scores {
		if s < 0 || s > 1 {
			t.Errorf("score %s = %v outside [0,1]", code, s)
		}
	}
}

func TestIntent(t *testing.T) {
	e := testEngine(t)
	res := e.Interpret("Please close the door.")
	if len(res.Phrases) == 0 {
		t.Fatal("no phrases")
	}
	in := res.Phrases[0].Intent
	if in.Kind != IntentRequest {
		t.Errorf("intent = %s, want %s", in.Kind, IntentRequest)
	}
	if in.Score <= 0 || in.Score > 1 {
		t.Errorf("intent score = %v", in.Score)
	}
}

func TestConcurrentInterpret(t *testing.T) {
	e := testEngine(t)
	want := e.Interpret("John called Sara. He said hello.")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := e.Interpret("John called Sara. He said hello.")
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("concurrent run differs:\n%s", diff)
			}
		}()
	}
	wg.Wait()
}
