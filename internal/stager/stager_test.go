package stager

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/battlewithbytes/demoize/internal/icon"
)

// fakeIcons records labels and writes a placeholder file.
type fakeIcons struct {
	labels []string
	err    error
}

func (f *fakeIcons) Make(label, path string) error {
	f.labels = append(f.labels, label)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("icon:"+label), 0644)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func sourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "makedemoDemo.py"), "print('demo')\n")
	writeFile(t, filepath.Join(src, "readme.txt"), "read me")
	writeFile(t, filepath.Join(src, "pkg", "__init__.py"), "")
	writeFile(t, filepath.Join(src, "pkg", "util.py"), "x = 1\n")
	writeFile(t, filepath.Join(src, "samples", "a.csv"), "1,2,3\n")
	return src
}

func TestStageGeneratesIcon(t *testing.T) {
	src := sourceTree(t)
	staging := filepath.Join(t.TempDir(), "makedemo")
	icons := &fakeIcons{}

	meta, err := New(icons, "", nil).Stage("Make a Demo", src, staging, 1.0)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}

	if meta.Icon.Local != GeneratedIcon {
		t.Errorf("icon = %q, want %q", meta.Icon.Local, GeneratedIcon)
	}
	if len(icons.labels) != 1 || icons.labels[0] != "Make a Demo" {
		t.Errorf("icon labels = %v", icons.labels)
	}
	if _, err := os.Stat(filepath.Join(staging, GeneratedIcon)); err != nil {
		t.Errorf("generated icon missing: %v", err)
	}

	wantCode := []FileRef{{Local: "makedemoDemo.py"}, {Local: "pkg.zip"}}
	wantData := []FileRef{{Local: "readme.txt"}, {Local: "samples.zip"}}
	if !reflect.DeepEqual(meta.Code, wantCode) {
		t.Errorf("code = %v, want %v", meta.Code, wantCode)
	}
	if !reflect.DeepEqual(meta.Data, wantData) {
		t.Errorf("data = %v, want %v", meta.Data, wantData)
	}

	onDisk, err := ReadMetadata(staging)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if !reflect.DeepEqual(onDisk, meta) {
		t.Errorf("metadata.json = %+v, want %+v", onDisk, meta)
	}
}

func TestStageWithRealIconGenerator(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "demo.py"), "")
	staging := filepath.Join(t.TempDir(), "makedemo")

	meta, err := New(icon.NewGenerator(), ".py", nil).Stage("Make a Demo", src, staging, 1)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if meta.Icon.Local != "icon.png" {
		t.Errorf("icon = %q, want icon.png", meta.Icon.Local)
	}

	raw, err := os.ReadFile(filepath.Join(staging, MetadataFile))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc["icon"].(map[string]any)["local"] != "icon.png" {
		t.Errorf(`metadata["icon"]["local"] = %v`, doc["icon"])
	}
	for _, key := range []string{"Name", "version", "icon", "code", "data"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("metadata.json missing key %q", key)
		}
	}
}

func TestStageKeepsSuppliedIcon(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "icon.jpg"), "jpg")
	writeFile(t, filepath.Join(src, "icon.png"), "png")
	icons := &fakeIcons{}
	staging := filepath.Join(t.TempDir(), "d")

	meta, err := New(icons, "", nil).Stage("Demo", src, staging, 2)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if len(icons.labels) != 0 {
		t.Error("icon generator should not run when an icon is supplied")
	}
	if meta.Icon.Local != "icon.jpg" {
		t.Errorf("icon = %q, want first by name icon.jpg", meta.Icon.Local)
	}
	if !reflect.DeepEqual(meta.Data, []FileRef{{Local: "icon.png"}}) {
		t.Errorf("data = %v, want extra icon recorded as data", meta.Data)
	}
	if meta.Version != 2 {
		t.Errorf("version = %v, want 2", meta.Version)
	}
}

func TestStageZipContents(t *testing.T) {
	src := sourceTree(t)
	staging := filepath.Join(t.TempDir(), "z")
	if _, err := New(&fakeIcons{}, "", nil).Stage("Zip", src, staging, 1); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	zr, err := zip.OpenReader(filepath.Join(staging, "pkg.zip"))
	if err != nil {
		t.Fatalf("opening pkg.zip: %v", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	want := []string{"pkg/", "pkg/__init__.py", "pkg/util.py"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("zip entries = %v, want %v", names, want)
	}

	// The unzipped copy stays next to the archive.
	if _, err := os.Stat(filepath.Join(staging, "pkg", "util.py")); err != nil {
		t.Errorf("copied directory missing: %v", err)
	}
}

func TestStageReplacesExistingStaging(t *testing.T) {
	src := sourceTree(t)
	staging := filepath.Join(t.TempDir(), "s")
	writeFile(t, filepath.Join(staging, "stale.txt"), "old")

	if _, err := New(&fakeIcons{}, "", nil).Stage("S", src, staging, 1); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if _, err := os.Stat(filepath.Join(staging, "stale.txt")); !os.IsNotExist(err) {
		t.Error("stale file should be removed by restaging")
	}
}

func TestStageIdempotent(t *testing.T) {
	src := sourceTree(t)
	staging := filepath.Join(t.TempDir(), "idem")
	st := New(&fakeIcons{}, "", nil)

	first, err := st.Stage("Idem", src, staging, 1)
	if err != nil {
		t.Fatal(err)
	}
	snapshot := readNonZip(t, staging)

	second, err := st.Stage("Idem", src, staging, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("metadata changed between stagings: %+v vs %+v", first, second)
	}
	again := readNonZip(t, staging)
	if !reflect.DeepEqual(snapshot, again) {
		t.Error("non-zip staged files differ between stagings")
	}
}

func readNonZip(t *testing.T, root string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) == ".zip" {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		out[rel] = data
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestStageCopiesBytes(t *testing.T) {
	src := t.TempDir()
	payload := []byte{0x00, 0xff, 0x10, 0x80, '\n'}
	if err := os.WriteFile(filepath.Join(src, "blob.bin"), payload, 0600); err != nil {
		t.Fatal(err)
	}
	staging := filepath.Join(t.TempDir(), "b")
	if _, err := New(&fakeIcons{}, "", nil).Stage("Bytes", src, staging, 1); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(staging, "blob.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("copied bytes = %v, want %v", got, payload)
	}
}

func TestStageMissingSource(t *testing.T) {
	_, err := New(&fakeIcons{}, "", nil).Stage("X", filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "s"), 1)
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestStageIconFailure(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.py"), "")
	boom := errors.New("font missing")
	_, err := New(&fakeIcons{err: boom}, "", nil).Stage("X", src, filepath.Join(t.TempDir(), "s"), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestStageNoIconGenerator(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.py"), "")
	if _, err := New(nil, "", nil).Stage("X", src, filepath.Join(t.TempDir(), "s"), 1); err == nil {
		t.Fatal("expected error without an icon generator")
	}
}

func TestStageRejectsNameCollisions(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"zip next to package dir", []string{"pkg/__init__.py", "pkg.zip"}},
		{"zip next to data dir", []string{"samples/a.csv", "samples.zip"}},
		{"metadata file in source", []string{"a.py", "icon.png", "metadata.json"}},
		{"metadata dir in source", []string{"a.py", "icon.png", "metadata.json/x.txt"}},
		{"dir named like generated icon", []string{"a.py", "icon.png/x.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(src, f), "user "+f)
			}
			staging := filepath.Join(t.TempDir(), "demo")
			writeFile(t, filepath.Join(staging, "keep.txt"), "old")

			_, err := New(&fakeIcons{}, "", nil).Stage("Clash", src, staging, 1)
			if !errors.Is(err, ErrNameCollision) {
				t.Fatalf("err = %v, want ErrNameCollision", err)
			}
			if _, err := os.Stat(filepath.Join(staging, "keep.txt")); err != nil {
				t.Errorf("rejected stage cleared the existing staging directory: %v", err)
			}
		})
	}
}

func TestStageZipFileWithoutMatchingDir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.py"), "")
	writeFile(t, filepath.Join(src, "bundle.zip"), "not built by us")

	meta, err := New(&fakeIcons{}, "", nil).Stage("Zip", src, filepath.Join(t.TempDir(), "s"), 1)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if !reflect.DeepEqual(meta.Data, []FileRef{{Local: "bundle.zip"}}) {
		t.Errorf("data = %v", meta.Data)
	}
}
