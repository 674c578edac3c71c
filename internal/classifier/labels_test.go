package classifier

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const uidTable = `n01491361	tiger shark, Galeocerdo cuvieri
n12557064	kidney bean, frijol, frijole
n02084071	dog, domestic dog, Canis familiaris
`

const nodeTable = `entry {
  target_class: 443
  target_class_string: "n01491361"
}
entry {
  target_class: 7
  target_class_string: "n12557064"
}
`

func TestLoadLabelMap(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeFile(t, dir, "labels.txt", uidTable)
	uidPath := writeFile(t, dir, "uids.pbtxt", nodeTable)

	got, err := LoadLabelMap(labelPath, uidPath)
	if err != nil {
		t.Fatalf("LoadLabelMap() error = %v", err)
	}

	want := LabelMap{
		443: "tiger shark, Galeocerdo cuvieri",
		7:   "kidney bean, frijol, frijole",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadLabelMap() = %v, want %v", got, want)
	}
}

func TestLoadLabelMapDeterministic(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeFile(t, dir, "labels.txt", uidTable)
	uidPath := writeFile(t, dir, "uids.pbtxt", nodeTable)

	first, err := LoadLabelMap(labelPath, uidPath)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LoadLabelMap(labelPath, uidPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated loads differ: %v vs %v", first, second)
	}
}

func TestLoadLabelMapUnresolvedUID(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeFile(t, dir, "labels.txt", uidTable)
	uidPath := writeFile(t, dir, "uids.pbtxt", `entry {
  target_class: 9
  target_class_string: "n99999999"
}
`)

	if _, err := LoadLabelMap(labelPath, uidPath); err == nil {
		t.Error("expected join failure for unresolved uid, got none")
	}
}

func TestLoadNodeToUIDTruncated(t *testing.T) {
	dir := t.TempDir()
	uidPath := writeFile(t, dir, "uids.pbtxt", `entry {
  target_class: 443
`)

	if _, err := loadNodeToUID(uidPath); err == nil {
		t.Error("expected error for trailing target_class without target_class_string")
	}
}

func TestLoadNodeToUIDMisplacedString(t *testing.T) {
	dir := t.TempDir()
	uidPath := writeFile(t, dir, "uids.pbtxt", `entry {
  target_class: 443
}
  target_class_string: "n01491361"
`)

	if _, err := loadNodeToUID(uidPath); err == nil {
		t.Error("expected error when target_class_string does not immediately follow target_class")
	}
}

func TestLoadUIDToLabel(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  bool
		want     map[string]string
	}{
		{
			name:     "first match per line wins",
			contents: "n12557064\tkidney bean, frijol, frijole\n",
			want:     map[string]string{"n12557064": "kidney bean, frijol, frijole"},
		},
		{
			name:     "duplicate uid keeps last line",
			contents: "n01 first label\nn01 second label\n",
			want:     map[string]string{"n01": "second label"},
		},
		{
			name:     "blank lines skipped",
			contents: "\nn02	dog\n\n",
			want:     map[string]string{"n02": "dog"},
		},
		{
			name:     "garbage line fails",
			contents: "not a uid line\n",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "labels.txt", tt.contents)
			got, err := loadUIDToLabel(path)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("loadUIDToLabel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadLabelMapMissingFile(t *testing.T) {
	dir := t.TempDir()
	uidPath := writeFile(t, dir, "uids.pbtxt", nodeTable)

	if _, err := LoadLabelMap(filepath.Join(dir, "absent.txt"), uidPath); err == nil {
		t.Error("expected error for missing label lookup file")
	}
}
