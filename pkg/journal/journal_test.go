package journal

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

type entry struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func readEntries(t *testing.T, j *Journal) []entry {
	t.Helper()
	var out []entry
	err := j.ReadAll(func(raw json.RawMessage) error {
		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadAll err=%v", err)
	}
	return out
}

func TestAppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		if err := j.Append(entry{Seq: i, Note: "n"}); err != nil {
			t.Fatal(err)
		}
	}
	got := readEntries(t, j)
	if len(got) != 3 || got[0].Seq != 1 || got[2].Seq != 3 {
		t.Fatalf("got=%+v", got)
	}
	// 讀完之後仍然可以追加
	if err := j.Append(entry{Seq: 4}); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path, WithSyncEachWrite())
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if err := reopened.Append(entry{Seq: 5}); err != nil {
		t.Fatal(err)
	}
	got = readEntries(t, reopened)
	if len(got) != 5 || got[3].Seq != 4 || got[4].Seq != 5 {
		t.Fatalf("got=%+v", got)
	}
}
