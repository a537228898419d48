package snapshot

import (
	"fmt"
	"sync"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status string
		want   State
	}{
		{"offline", Offline},
		{"OFFLINE", Offline},
		{"Offline", Offline},
		{"online", Online},
		{"running", Online},
		{"running ota", Online},
		{"unknown", Online},
		{"", Online}, // absent status never hides a node
		{"offline-soon", Online},
	}
	for _, c := range cases {
		if got := Classify(c.status); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestNodeStoreReplaceAndGet(t *testing.T) {
	s := NewNodeStore()
	if _, ok := s.Get("n1"); ok {
		t.Fatal("empty store should have no nodes")
	}

	s.Replace(map[string]NodeInfo{"n1": {Status: "online"}})
	info, ok := s.Get("n1")
	if !ok || info.Status != "online" {
		t.Fatalf("Get(n1) = %+v, %v", info, ok)
	}

	// A snapshot omitting the key removes the node.
	s.Replace(map[string]NodeInfo{"n2": {Status: "offline"}})
	if _, ok := s.Get("n1"); ok {
		t.Error("n1 should be gone after replacement snapshot")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestNodeStoreReplaceNil(t *testing.T) {
	s := NewNodeStore()
	s.Replace(nil)
	if s.All() == nil {
		t.Fatal("All must never return a nil map")
	}
}

// A reader must only ever observe entries from a single snapshot, never a
// mix of two, while replacements race with reads.
func TestNodeStoreAtomicReplace(t *testing.T) {
	s := NewNodeStore()

	snapA := map[string]NodeInfo{"a1": {Status: "online"}, "a2": {Status: "online"}}
	snapB := map[string]NodeInfo{"b1": {Status: "offline"}, "b2": {Status: "offline"}}
	s.Replace(snapA)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				s.Replace(map[string]NodeInfo{"a1": snapA["a1"], "a2": snapA["a2"]})
			} else {
				s.Replace(map[string]NodeInfo{"b1": snapB["b1"], "b2": snapB["b2"]})
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		view := s.All()
		_, hasA := view["a1"]
		_, hasB := view["b1"]
		if hasA && hasB {
			t.Fatal("observed a torn snapshot mixing two generations")
		}
		if len(view) != 2 {
			t.Fatalf("observed partial snapshot of %d entries", len(view))
		}
	}
	close(stop)
	wg.Wait()
}

func TestFileStoreReplace(t *testing.T) {
	s := NewFileStore()
	if got := s.List(); len(got) != 0 {
		t.Fatalf("empty store listed %d files", len(got))
	}
	files := make([]FileEntry, 3)
	for i := range files {
		files[i] = FileEntry{Name: fmt.Sprintf("fw-%d.bin", i), URL: fmt.Sprintf("/files/fw-%d.bin", i)}
	}
	s.Replace(files)
	if got := s.List(); len(got) != 3 || got[0].Name != "fw-0.bin" {
		t.Fatalf("List = %+v", got)
	}
}
