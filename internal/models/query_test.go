package models

import "testing"

func TestSearchQueryValidate(t *testing.T) {
	q := &SearchQuery{Query: "test"}
	topK, err := q.Validate(5)
	if err != nil {
		t.Fatal(err)
	}
	if topK != 5 {
		t.Errorf("omitted top_k should default: got %d", topK)
	}

	zero := 0
	q = &SearchQuery{Query: "test", TopK: &zero}
	topK, err = q.Validate(5)
	if err != nil {
		t.Fatal(err)
	}
	if topK != 0 {
		t.Errorf("explicit 0 must stay 0, got %d", topK)
	}

	neg := -3
	q = &SearchQuery{Query: "test", TopK: &neg}
	if _, err := q.Validate(5); err == nil {
		t.Error("negative top_k should be rejected")
	}
}
