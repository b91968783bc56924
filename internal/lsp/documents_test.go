package lsp

import "testing"

const docURI = "file:///test.varna"

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()

	if _, ok := store.Get(docURI); ok {
		t.Fatal("expected document to be absent before Open")
	}
	if store.Result(docURI) != nil {
		t.Fatal("expected nil result for an unopened document")
	}

	store.Open(docURI, validTable)
	got, ok := store.Get(docURI)
	if !ok || got != validTable {
		t.Fatalf("Get after Open = %q, %v", got, ok)
	}

	first := store.Result(docURI)
	if first == nil {
		t.Fatal("expected an analysis result")
	}
	if store.Result(docURI) != first {
		t.Error("Result should be cached until the document changes")
	}

	store.Update(docURI, "varna {\n  k = \"#000000\"\n}")
	second := store.Result(docURI)
	if second == first {
		t.Error("Update should drop the cached result")
	}
	if len(second.Chars) != 1 || second.Chars[0].Color.Hex() != "#000000" {
		t.Errorf("result does not reflect updated content: %+v", second.Chars)
	}

	store.Close(docURI)
	if _, ok := store.Get(docURI); ok {
		t.Error("expected document to be absent after Close")
	}
	if store.Result(docURI) != nil {
		t.Error("expected nil result after Close")
	}
}
