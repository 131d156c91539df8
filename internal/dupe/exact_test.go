package dupe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jkulhanek/dupescan/internal/progress"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sortedGroups(groups map[string][]string) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		members := append([]string(nil), g...)
		sort.Strings(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func TestExactGroups(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte("image bytes "), 500)
	flipped := bytes.Clone(payload)
	flipped[100] ^= 1

	a := writeFile(t, dir, "a.jpg", payload)
	b := writeFile(t, dir, "b.jpg", payload)
	c := writeFile(t, dir, "c.jpg", flipped)
	d := writeFile(t, dir, "d.jpg", []byte("entirely different"))

	rec := &progress.Recorder{}
	groups := ExactGroups(context.Background(), []string{a, b, c, d}, 4, rec)

	if len(groups) != 1 {
		t.Fatalf("got %d groups; want 1", len(groups))
	}
	got := sortedGroups(groups)[0]
	want := []string{a, b}
	sort.Strings(want)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("group = %v; want %v", got, want)
	}

	done, cancelled, found := rec.Terminal()
	if !done || cancelled {
		t.Errorf("terminal done=%v cancelled=%v; want done", done, cancelled)
	}
	if found != 2 {
		t.Errorf("found = %d; want 2", found)
	}
}

func TestExactGroupsDeterministicMembers(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("same same")
	paths := []string{
		writeFile(t, dir, "1.jpg", payload),
		writeFile(t, dir, "2.jpg", payload),
		writeFile(t, dir, "3.jpg", []byte("other")),
		writeFile(t, dir, "4.jpg", []byte("other")),
		writeFile(t, dir, "5.jpg", []byte("loner")),
	}

	var reference [][]string
	for _, workers := range []int{1, 2, 8} {
		groups := ExactGroups(context.Background(), paths, workers, nil)
		got := sortedGroups(groups)
		if reference == nil {
			reference = got
			continue
		}
		if len(got) != len(reference) {
			t.Fatalf("workers=%d: %d groups; want %d", workers, len(got), len(reference))
		}
		for i := range got {
			for j := range got[i] {
				if got[i][j] != reference[i][j] {
					t.Errorf("workers=%d: group member mismatch: %v vs %v", workers, got[i], reference[i])
				}
			}
		}
	}
}

func TestExactGroupsDropsFailures(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("pair")
	a := writeFile(t, dir, "a.bin", payload)
	b := writeFile(t, dir, "b.bin", payload)
	missing := filepath.Join(dir, "missing.bin")

	groups := ExactGroups(context.Background(), []string{a, b, missing}, 2, nil)
	if len(groups) != 1 {
		t.Fatalf("got %d groups; want 1", len(groups))
	}
	for _, g := range groups {
		for _, p := range g {
			if p == missing {
				t.Error("unreadable file must never appear in a group")
			}
		}
	}
}

func TestExactGroupsEmptyInput(t *testing.T) {
	rec := &progress.Recorder{}
	groups := ExactGroups(context.Background(), nil, 4, rec)
	if len(groups) != 0 {
		t.Errorf("got %d groups for empty input; want 0", len(groups))
	}
	done, cancelled, found := rec.Terminal()
	if !done || cancelled || found != 0 {
		t.Errorf("terminal done=%v cancelled=%v found=%d; want done with 0", done, cancelled, found)
	}
}

func TestExactGroupsCancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.bin", []byte("x")),
		writeFile(t, dir, "b.bin", []byte("x")),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &progress.Recorder{}
	ExactGroups(ctx, paths, 2, rec)

	done, cancelled, _ := rec.Terminal()
	if done || !cancelled {
		t.Errorf("terminal done=%v cancelled=%v; want cancelled", done, cancelled)
	}
}
