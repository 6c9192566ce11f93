package embedding

import "testing"

func TestWordTokenizer_Shape(t *testing.T) {
	tok := &WordTokenizer{}
	ids, mask, types := tok.Tokenize("hello world", 16)
	if len(ids) != 16 || len(mask) != 16 || len(types) != 16 {
		t.Fatalf("lengths: %d %d %d", len(ids), len(mask), len(types))
	}
	if ids[0] != tokenCLS {
		t.Errorf("first token should be CLS, got %d", ids[0])
	}
	if mask[0] != 1 || mask[1] != 1 || mask[2] != 1 || mask[3] != 1 {
		t.Errorf("mask should cover CLS, 2 words, SEP: %v", mask[:5])
	}
	if ids[3] != tokenSEP {
		t.Errorf("token after words should be SEP, got %d", ids[3])
	}
	if mask[4] != 0 {
		t.Error("padding should not be attended")
	}
}

func TestWordTokenizer_Truncates(t *testing.T) {
	tok := &WordTokenizer{}
	text := "a b c d e f g h i j"
	ids, mask, _ := tok.Tokenize(text, 4)
	if len(ids) != 4 {
		t.Fatalf("length: %d", len(ids))
	}
	// CLS + 2 words + SEP fill the window.
	if mask[3] != 1 {
		t.Error("last slot should hold SEP")
	}
}

func TestWordTokenizer_Deterministic(t *testing.T) {
	tok := &WordTokenizer{}
	a, _, _ := tok.Tokenize("repeatable words", 8)
	b, _, _ := tok.Tokenize("repeatable words", 8)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("token ids differ at %d", i)
		}
	}
}
