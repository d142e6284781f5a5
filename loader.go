package interpres

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LexiconOptions tune LoadLexicon.
type LexiconOptions struct {
	// Window is the tagging context used when training the feature model.
	Window Window
	// UserDB is an optional SQLite user lexicon merged after lexicon.txt.
	UserDB string
	Log    *zap.Logger
}

// LoadLexicon reads a data directory:
//
//	categories.txt  path[=code]                       (required)
//	entities.txt    path
//	lexicon.txt     word|TAG|stem|categories|entities|attrs  (required)
//	mwe.txt         standard|scoring|both|phrase|TAG|categories|entities|attrs
//	preprocess.txt  key|kind|value[|TAG]
//	future.txt      prefix words|TAG
//	intents.txt     kind|pattern
//	rules.txt       conjunction rules
//	corpus.txt      word/TAG word/TAG ... (one sentence per line)
//
// Lines starting with "!" are comments.
func LoadLexicon(dataDir string, opts LexiconOptions) (*Lexicon, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	l := newLexicon()

	if err := l.loadCategories(dataDir); err != nil {
		return nil, err
	}
	if err := l.loadEntities(dataDir); err != nil {
		return nil, err
	}
	l.categories.Seal()
	l.entities.Seal()

	if err := l.loadEntries(dataDir); err != nil {
		return nil, err
	}
	if opts.UserDB != "" {
		n, err := l.loadUserDB(opts.UserDB)
		if err != nil {
			return nil, err
		}
		log.Info("user lexicon merged", zap.String("path", opts.UserDB), zap.Int("entries", n))
	}
	l.link()

	for _, load := range []func(string) error{
		l.loadMWE,
		l.loadPreprocess,
		l.loadFuture,
		l.loadIntents,
		l.loadRules,
	} {
		if err := load(dataDir); err != nil {
			return nil, err
		}
	}
	sentences, err := l.loadCorpus(dataDir)
	if err != nil {
		return nil, err
	}
	l.model.Train(sentences, opts.Window, func(tw TaggedWord) *Token {
		return l.candidateFor(tw.Word, tw.Tag)
	})

	log.Info("lexicon loaded",
		zap.String("dir", dataDir),
		zap.Int("words", len(l.words)),
		zap.Int("readings", l.Len()),
		zap.Int("categories", l.categories.Len()),
		zap.Int("sentences", len(sentences)),
		zap.Int("features", len(l.model.Features)),
	)
	return l, nil
}

// scanFile calls fn for every non-comment line of dataDir/name. A missing
// optional file is not an error.
func scanFile(dataDir, name string, required bool, fn func(line string) error) error {
	f, err := os.Open(filepath.Join(dataDir, name))
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("%s:%d: %w", name, n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func (l *Lexicon) loadCategories(dataDir string) error {
	return scanFile(dataDir, "categories.txt", true, func(line string) error {
		path, code, _ := strings.Cut(line, "=")
		l.categories.Insert(strings.TrimSpace(path), strings.TrimSpace(code))
		return nil
	})
}

func (l *Lexicon) loadEntities(dataDir string) error {
	return scanFile(dataDir, "entities.txt", false, func(line string) error {
		l.entities.Insert(line, "")
		return nil
	})
}

func (l *Lexicon) add(e *Entry) error {
	if _, unknown := l.addEntry(e); len(unknown) > 0 {
		return fmt.Errorf("entry %q: unknown paths %s", e.Word, strings.Join(unknown, ", "))
	}
	return nil
}

func (l *Lexicon) loadEntries(dataDir string) error {
	return scanFile(dataDir, "lexicon.txt", true, func(line string) error {
		e, err := ParseEntry(line)
		if err != nil {
			return err
		}
		return l.add(e)
	})
}

func (l *Lexicon) loadUserDB(path string) (int, error) {
	db, err := OpenUserLexicon(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	entries, err := db.Entries(context.Background())
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := l.add(e); err != nil {
			return 0, fmt.Errorf("user lexicon %s: %w", path, err)
		}
	}
	return len(entries), nil
}

func (l *Lexicon) loadMWE(dataDir string) error {
	return scanFile(dataDir, "mwe.txt", false, func(line string) error {
		e, kind, err := parseMWE(line)
		if err != nil {
			return err
		}
		words := strings.Fields(NormalizeKey(e.Word))
		if len(words) < 2 {
			return fmt.Errorf("mwe %q: needs at least two words", e.Word)
		}
		id, unknown := l.addTemplate(e)
		if len(unknown) > 0 {
			return fmt.Errorf("mwe %q: unknown paths %s", e.Word, strings.Join(unknown, ", "))
		}
		switch kind {
		case "standard":
			l.mwe[MWEStandard].Insert(words, id)
		case "scoring":
			l.mwe[MWEScoring].Insert(words, id)
		case "both":
			l.mwe[MWEStandard].Insert(words, id)
			l.mwe[MWEScoring].Insert(words, id)
		default:
			return fmt.Errorf("mwe %q: unknown kind %q", e.Word, kind)
		}
		return nil
	})
}

// parseMWE reads kind|phrase|TAG|categories|entities|attrs. MWEs carry no
// stem.
func parseMWE(line string) (*Entry, string, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil, "", fmt.Errorf("mwe %q: want kind|phrase|TAG", line)
	}
	fields := append([]string{parts[1], parts[2], ""}, parts[3:]...)
	e, err := entryFromFields(fields)
	if err != nil {
		return nil, "", err
	}
	return e, parts[0], nil
}

func (l *Lexicon) loadPreprocess(dataDir string) error {
	return scanFile(dataDir, "preprocess.txt", false, func(line string) error {
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			return fmt.Errorf("preprocess %q: want key|kind|value", line)
		}
		kind, ok := preKindNames[parts[1]]
		if !ok {
			return fmt.Errorf("preprocess %q: unknown kind %q", parts[0], parts[1])
		}
		e := PreEntry{Kind: kind, Value: parts[2]}
		if len(parts) > 3 && parts[3] != "" {
			t, err := ParseTag(parts[3])
			if err != nil {
				return err
			}
			e.Tag = t
		}
		l.pre[NormalizeKey(parts[0])] = e
		return nil
	})
}

func (l *Lexicon) loadFuture(dataDir string) error {
	return scanFile(dataDir, "future.txt", false, func(line string) error {
		prefix, tagName, ok := strings.Cut(line, "|")
		if !ok {
			return fmt.Errorf("future %q: want prefix|TAG", line)
		}
		t, err := ParseTag(strings.TrimSpace(tagName))
		if err != nil {
			return err
		}
		l.future.Insert(strings.Fields(NormalizeKey(prefix)), uint32(t))
		return nil
	})
}

func (l *Lexicon) loadIntents(dataDir string) error {
	return scanFile(dataDir, "intents.txt", false, func(line string) error {
		name, pattern, ok := strings.Cut(line, "|")
		if !ok {
			return fmt.Errorf("intent %q: want kind|pattern", line)
		}
		kind, ok := ParseIntentKind(name)
		if !ok {
			return fmt.Errorf("intent %q: unknown kind %q", pattern, name)
		}
		l.intents.Insert(strings.Fields(NormalizeKey(pattern)), uint32(kind))
		return nil
	})
}

func (l *Lexicon) loadRules(dataDir string) error {
	return scanFile(dataDir, "rules.txt", false, func(line string) error {
		r, err := ParseRule(line)
		if err != nil {
			return err
		}
		l.model.AddRule(r)
		return nil
	})
}

func (l *Lexicon) loadCorpus(dataDir string) ([][]TaggedWord, error) {
	var sentences [][]TaggedWord
	err := scanFile(dataDir, "corpus.txt", false, func(line string) error {
		var sent []TaggedWord
		for _, item := range strings.Fields(line) {
			i := strings.LastIndex(item, "/")
			if i <= 0 {
				return fmt.Errorf("corpus item %q: want word/TAG", item)
			}
			t, err := ParseTag(item[i+1:])
			if err != nil {
				return err
			}
			sent = append(sent, TaggedWord{Word: NormalizeKey(item[:i]), Tag: t})
		}
		sentences = append(sentences, sent)
		return nil
	})
	return sentences, err
}
